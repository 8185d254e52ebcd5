package engine_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/engine"
)

func snapshotAt(day int, meanScore float64, severe ...model.SevereRisk) *model.ForecastSnapshot {
	return &model.ForecastSnapshot{
		ID:              model.SnapshotID(string(rune('a' + day))),
		Timestamp:       time.Date(2025, 6, 1+day, 0, 0, 0, 0, time.UTC),
		MeanScore:       meanScore,
		CountByLevel:    map[types.RiskLevel]int{},
		OpenSevereRisks: severe,
	}
}

func TestForecast(t *testing.T) {
	now := time.Now()

	t.Run("fewer than two snapshots is refused", func(t *testing.T) {
		_, err := engine.Forecast(nil, 3, 5, now)
		gt.Error(t, err).Is(types.ErrInsufficientHistory)

		_, err = engine.Forecast([]*model.ForecastSnapshot{snapshotAt(0, 5.0)}, 3, 5, now)
		gt.Error(t, err).Is(types.ErrInsufficientHistory)
	})

	t.Run("rising mean scores project a worsening trend", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 1.0), snapshotAt(1, 2.0), snapshotAt(2, 3.0),
			snapshotAt(3, 4.0), snapshotAt(4, 5.0),
		}

		proj, err := engine.Forecast(history, 3, 5, now)
		gt.NoError(t, err)
		gt.Value(t, proj.Direction).Equal(types.TrendWorsening)
		almostEqual(t, proj.ChangeRate, 1.0)
		gt.Array(t, proj.ProjectedMeanScores).Length(3)
		almostEqual(t, proj.ProjectedMeanScores[0], 6.0)
		almostEqual(t, proj.ProjectedMeanScores[1], 7.0)
		almostEqual(t, proj.ProjectedMeanScores[2], 8.0)
	})

	t.Run("projections are clamped to the score domain", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 7.0), snapshotAt(1, 9.0),
		}

		proj, err := engine.Forecast(history, 3, 2, now)
		gt.NoError(t, err)
		almostEqual(t, proj.ProjectedMeanScores[0], 10.0) // 9 + 2 clamped
		almostEqual(t, proj.ProjectedMeanScores[2], 10.0)
	})

	t.Run("falling mean scores project an improving trend", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 6.0), snapshotAt(1, 4.5), snapshotAt(2, 3.0),
		}

		proj, err := engine.Forecast(history, 2, 3, now)
		gt.NoError(t, err)
		gt.Value(t, proj.Direction).Equal(types.TrendImproving)
		gt.Bool(t, proj.ChangeRate < 0).True()
	})

	t.Run("marginal slope counts as stable", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 5.0), snapshotAt(1, 5.05), snapshotAt(2, 5.1),
		}

		proj, err := engine.Forecast(history, 1, 3, now)
		gt.NoError(t, err)
		gt.Value(t, proj.Direction).Equal(types.TrendStable)
	})

	t.Run("window wider than history shrinks to fit", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 1.0), snapshotAt(1, 2.0), snapshotAt(2, 3.0),
		}

		proj, err := engine.Forecast(history, 1, 10, now)
		gt.NoError(t, err)
		gt.Number(t, proj.Window).Equal(3)
	})

	t.Run("non-positive horizon is rejected", func(t *testing.T) {
		history := []*model.ForecastSnapshot{snapshotAt(0, 1.0), snapshotAt(1, 2.0)}
		_, err := engine.Forecast(history, 0, 2, now)
		gt.Error(t, err)
	})
}

func TestForecastExploitEstimates(t *testing.T) {
	now := time.Now()
	rce := model.SevereRisk{EventID: "ev-rce", Level: types.RiskLevelExtreme}
	kernel := model.SevereRisk{EventID: "ev-kernel", Level: types.RiskLevelHigh}

	t.Run("persistence is measured across consecutive snapshots", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 4.0, rce),
			snapshotAt(1, 4.5, rce),
			snapshotAt(4, 5.0, rce, kernel),
		}

		proj, err := engine.Forecast(history, 1, 3, now)
		gt.NoError(t, err)
		gt.Array(t, proj.ExploitEstimates).Length(2)

		byID := map[model.EventID]model.ExploitEstimate{}
		for _, est := range proj.ExploitEstimates {
			byID[est.EventID] = est
		}

		// rce persisted from day 0 to day 4: extreme for 4 days -> imminent
		gt.Value(t, byID["ev-rce"].PersistedFor).Equal(4 * 24 * time.Hour)
		gt.Value(t, byID["ev-rce"].Band).Equal(types.ExploitBandImminent)

		// kernel appears only in the latest snapshot -> no persistence
		gt.Value(t, byID["ev-kernel"].PersistedFor).Equal(time.Duration(0))
		gt.Value(t, byID["ev-kernel"].Band).Equal(types.ExploitBandDistant)
	})

	t.Run("fresh extreme risk gets a near term band", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 4.0),
			snapshotAt(1, 4.5, rce),
		}

		proj, err := engine.Forecast(history, 1, 2, now)
		gt.NoError(t, err)
		gt.Array(t, proj.ExploitEstimates).Length(1)
		gt.Value(t, proj.ExploitEstimates[0].Band).Equal(types.ExploitBandNear)
	})

	t.Run("a gap in presence resets persistence", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 4.0, kernel),
			snapshotAt(10, 4.5),
			snapshotAt(20, 5.0, kernel),
		}

		proj, err := engine.Forecast(history, 1, 3, now)
		gt.NoError(t, err)
		gt.Value(t, proj.ExploitEstimates[0].PersistedFor).Equal(time.Duration(0))
	})
}

func TestForecastRecommendations(t *testing.T) {
	now := time.Now()

	t.Run("worsening trend with extreme risks", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 1.0), snapshotAt(1, 3.0),
		}
		history[1].CountByLevel[types.RiskLevelExtreme] = 2

		proj, err := engine.Forecast(history, 1, 2, now)
		gt.NoError(t, err)
		gt.Array(t, proj.Recommendations).Length(2)
	})

	t.Run("improving trend without extremes", func(t *testing.T) {
		history := []*model.ForecastSnapshot{
			snapshotAt(0, 5.0), snapshotAt(1, 3.0),
		}

		proj, err := engine.Forecast(history, 1, 2, now)
		gt.NoError(t, err)
		gt.Array(t, proj.Recommendations).Length(1)
	})
}
