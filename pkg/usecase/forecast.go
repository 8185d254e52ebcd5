package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/interfaces"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/engine"
)

// ForecastUseCase projects the risk trend from the archived snapshot
// history. The repository owns persistence; the forecaster itself holds no
// state between calls.
type ForecastUseCase struct {
	repo     interfaces.Repository
	criteria *criteria.RiskCriteria
}

func NewForecastUseCase(repo interfaces.Repository, crit *criteria.RiskCriteria) *ForecastUseCase {
	return &ForecastUseCase{
		repo:     repo,
		criteria: crit,
	}
}

// Execute loads the snapshot history and projects `horizon` future periods.
// A window of 0 uses the policy's forecast window. Callers should treat
// types.ErrInsufficientHistory as non-fatal: the forecast is simply omitted.
func (uc *ForecastUseCase) Execute(ctx context.Context, horizon, window int) (*model.TrendProjection, error) {
	history, err := uc.repo.Snapshot().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load snapshot history")
	}

	if window <= 0 {
		window = uc.criteria.ForecastWindow
	}

	proj, err := engine.Forecast(history, horizon, window, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return proj, nil
}
