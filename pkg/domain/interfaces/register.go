package interfaces

import (
	"context"

	"github.com/risklens-dev/risklens/pkg/domain/model"
)

// RegisterRepository defines the interface for RiskRegister persistence.
// Registers are value snapshots: they are saved once per run and never
// updated in place.
type RegisterRepository interface {
	// Save stores a complete register
	Save(ctx context.Context, reg *model.RiskRegister) error

	// Get retrieves a register by ID
	Get(ctx context.Context, id model.RegisterID) (*model.RiskRegister, error)

	// GetLatest retrieves the most recently generated register.
	// Returns nil, nil when no register has been stored yet.
	GetLatest(ctx context.Context) (*model.RiskRegister, error)
}
