package interfaces

import (
	"context"

	"github.com/risklens-dev/risklens/pkg/domain/model"
)

// SnapshotRepository defines the interface for ForecastSnapshot persistence.
// The history is append-only: snapshots are never rewritten or deleted.
type SnapshotRepository interface {
	// Append stores a new snapshot
	Append(ctx context.Context, snap *model.ForecastSnapshot) error

	// List retrieves all snapshots ordered by timestamp ascending
	List(ctx context.Context) ([]*model.ForecastSnapshot, error)
}
