package engine

import (
	"context"
	"sort"

	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/utils/logging"
)

// Identify normalizes raw findings into risk events. Duplicate findings with
// the same (assetRef, sourceKind, cause) identity are merged keeping the
// maximum severity: when sources disagree, the risk is never understated.
//
// A malformed record is dropped and counted, not fatal; one bad record must
// not abort the whole batch. The returned events are sorted by ID so two
// runs over identical input produce byte-identical output.
func Identify(ctx context.Context, findings []model.RawFinding) ([]model.RiskEvent, int) {
	logger := logging.From(ctx)

	merged := make(map[model.EventID]*model.RiskEvent, len(findings))
	dropped := 0

	for _, f := range findings {
		if err := f.Validate(); err != nil {
			dropped++
			logger.Warn("dropping malformed finding",
				"error", err.Error(),
				types.AssetRefKey, f.AssetRef,
				types.SourceKindKey, f.SourceKind,
			)
			continue
		}

		kind := types.SourceKind(f.SourceKind)
		id := model.NewEventID(kind, f.AssetRef, f.Cause)

		if existing, ok := merged[id]; ok {
			if f.RawSeverity > existing.RawSeverity {
				existing.RawSeverity = f.RawSeverity
				// The merged event reflects the most severe observation.
				if f.ConsequenceHint != "" {
					existing.ConsequenceHint = f.ConsequenceHint
				}
				if f.CVE != "" {
					existing.CVE = f.CVE
				}
			}
			continue
		}

		merged[id] = &model.RiskEvent{
			ID:              id,
			SourceKind:      kind,
			AssetRef:        f.AssetRef,
			RawSeverity:     f.RawSeverity,
			Cause:           f.Cause,
			ConsequenceHint: f.ConsequenceHint,
			CVE:             f.CVE,
		}
	}

	events := make([]model.RiskEvent, 0, len(merged))
	for _, ev := range merged {
		events = append(events, *ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})

	return events, dropped
}
