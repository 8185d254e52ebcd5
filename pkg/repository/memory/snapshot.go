package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

type snapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*model.ForecastSnapshot
}

func newSnapshotRepository() *snapshotRepository {
	return &snapshotRepository{}
}

func copySnapshot(snap *model.ForecastSnapshot) *model.ForecastSnapshot {
	copied := &model.ForecastSnapshot{
		ID:          snap.ID,
		RegisterID:  snap.RegisterID,
		Timestamp:   snap.Timestamp,
		TotalRisks:  snap.TotalRisks,
		MeanScore:   snap.MeanScore,
		MedianScore: snap.MedianScore,
	}
	copied.OpenSevereRisks = append([]model.SevereRisk(nil), snap.OpenSevereRisks...)
	if snap.CountByLevel != nil {
		copied.CountByLevel = make(map[types.RiskLevel]int, len(snap.CountByLevel))
		for level, n := range snap.CountByLevel {
			copied.CountByLevel[level] = n
		}
	}
	return copied
}

func (r *snapshotRepository) Append(ctx context.Context, snap *model.ForecastSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.snapshots {
		if existing.ID == snap.ID {
			return goerr.New("snapshot already exists", goerr.V("id", snap.ID))
		}
	}

	r.snapshots = append(r.snapshots, copySnapshot(snap))
	return nil
}

func (r *snapshotRepository) List(ctx context.Context) ([]*model.ForecastSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ForecastSnapshot, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		result = append(result, copySnapshot(snap))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}
