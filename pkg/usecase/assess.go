package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/interfaces"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/engine"
	"github.com/risklens-dev/risklens/pkg/service/notify"
	"github.com/risklens-dev/risklens/pkg/utils/async"
	"github.com/risklens-dev/risklens/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// AssessUseCase runs the full assessment pipeline: identify, analyze and
// evaluate per asset in parallel, then aggregate into one register.
type AssessUseCase struct {
	repo     interfaces.Repository
	criteria *criteria.RiskCriteria
	notifier notify.Service
}

func NewAssessUseCase(repo interfaces.Repository, crit *criteria.RiskCriteria, notifier notify.Service) *AssessUseCase {
	return &AssessUseCase{
		repo:     repo,
		criteria: crit,
		notifier: notifier,
	}
}

// AssessInput carries one assessment run's raw findings
type AssessInput struct {
	Findings []model.RawFinding

	// Archive stores a forecast snapshot of the resulting register.
	Archive bool
}

// Execute runs one complete assessment. It either returns a complete
// register or fails outright; partially assessed asset batches are
// discarded, never merged.
func (uc *AssessUseCase) Execute(ctx context.Context, input AssessInput) (*model.RiskRegister, error) {
	if uc.criteria == nil {
		return nil, goerr.Wrap(types.ErrConfig, "assessment requires risk criteria")
	}
	if err := uc.criteria.Validate(); err != nil {
		return nil, goerr.Wrap(err, "refusing to assess against invalid criteria")
	}

	logger := logging.From(ctx)
	started := time.Now()

	batches := groupByAsset(input.Findings)
	logger.Info("Starting risk assessment",
		"findings", len(input.Findings),
		"assets", len(batches),
	)

	// Per-asset batches are independent: no shared mutable state until the
	// aggregator joins them.
	registers := make([]*model.RiskRegister, len(batches))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, batch := range batches {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			events, dropped := engine.Identify(egCtx, batch.findings)
			analyzed, err := engine.Analyze(events, uc.criteria)
			if err != nil {
				return goerr.Wrap(err, "analysis failed for asset batch",
					goerr.V(types.AssetRefKey, batch.assetRef))
			}

			reg, err := engine.Evaluate(analyzed, uc.criteria,
				model.RegisterID(fmt.Sprintf("batch-%s", batch.assetRef)), started)
			if err != nil {
				return goerr.Wrap(err, "evaluation failed for asset batch",
					goerr.V(types.AssetRefKey, batch.assetRef))
			}
			reg.DroppedFindings = dropped

			registers[i] = reg
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	reg, err := engine.Aggregate(registers, uc.criteria,
		model.RegisterID(uuid.NewString()), time.Now().UTC())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to aggregate asset registers")
	}

	if err := uc.repo.Register().Save(ctx, reg); err != nil {
		return nil, goerr.Wrap(err, "failed to save register")
	}

	if input.Archive {
		snap := model.NewSnapshot(model.SnapshotID(uuid.NewString()), reg, reg.GeneratedAt)
		if err := uc.repo.Snapshot().Append(ctx, snap); err != nil {
			return nil, goerr.Wrap(err, "failed to archive snapshot")
		}
	}

	logger.Info("Risk assessment completed",
		"register_id", reg.ID,
		"risks", len(reg.Risks),
		"dropped_findings", reg.DroppedFindings,
		"duration", time.Since(started).String(),
	)

	uc.notifyIfSevere(ctx, reg)

	return reg, nil
}

// notifyIfSevere dispatches a notification when the register contains
// extreme risks. Notification failures never fail the assessment.
func (uc *AssessUseCase) notifyIfSevere(ctx context.Context, reg *model.RiskRegister) {
	if uc.notifier == nil {
		return
	}
	if reg.Stats.CountByLevel[types.RiskLevelExtreme] == 0 {
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.NotifyRegister(ctx, reg)
	})
}

type assetBatch struct {
	assetRef string
	findings []model.RawFinding
}

// groupByAsset splits findings into per-asset batches with a deterministic
// order. Findings without an asset ref stay in one batch so the identifier
// can count them as dropped.
func groupByAsset(findings []model.RawFinding) []assetBatch {
	byAsset := make(map[string][]model.RawFinding)
	for _, f := range findings {
		byAsset[f.AssetRef] = append(byAsset[f.AssetRef], f)
	}

	batches := make([]assetBatch, 0, len(byAsset))
	for assetRef, fs := range byAsset {
		batches = append(batches, assetBatch{assetRef: assetRef, findings: fs})
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].assetRef < batches[j].assetRef
	})
	return batches
}
