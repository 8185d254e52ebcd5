package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/repository/memory"
)

func testRegister(id model.RegisterID, at time.Time) *model.RiskRegister {
	return &model.RiskRegister{
		ID:          id,
		GeneratedAt: at,
		Risks: []model.EvaluatedRisk{
			{Event: model.RiskEvent{ID: "ev-1", AssetRef: "web-01", Cause: "x"}, Level: types.RiskLevelHigh, NumericScore: 6.0, PriorityRank: 1},
		},
		Stats: model.RegisterStats{
			CountByLevel: map[types.RiskLevel]int{types.RiskLevelHigh: 1},
			MeanScore:    6.0,
		},
	}
}

func TestRegisterRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get round trip", func(t *testing.T) {
		repo := memory.New()
		reg := testRegister("r1", time.Now())

		gt.NoError(t, repo.Register().Save(ctx, reg))

		got, err := repo.Register().Get(ctx, "r1")
		gt.NoError(t, err)
		gt.Value(t, got.ID).Equal(reg.ID)
		gt.Array(t, got.Risks).Length(1)
	})

	t.Run("duplicate ID is rejected", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Register().Save(ctx, testRegister("r1", time.Now())))
		gt.Error(t, repo.Register().Save(ctx, testRegister("r1", time.Now())))
	})

	t.Run("get unknown ID fails", func(t *testing.T) {
		repo := memory.New()
		_, err := repo.Register().Get(ctx, "missing")
		gt.Error(t, err)
	})

	t.Run("latest follows insertion order", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Register().Save(ctx, testRegister("r1", time.Now())))
		gt.NoError(t, repo.Register().Save(ctx, testRegister("r2", time.Now())))

		latest, err := repo.Register().GetLatest(ctx)
		gt.NoError(t, err)
		gt.Value(t, latest.ID).Equal(model.RegisterID("r2"))
	})

	t.Run("empty repository yields nil latest", func(t *testing.T) {
		repo := memory.New()
		latest, err := repo.Register().GetLatest(ctx)
		gt.NoError(t, err)
		gt.Value(t, latest).Nil()
	})

	t.Run("stored register is isolated from caller mutation", func(t *testing.T) {
		repo := memory.New()
		reg := testRegister("r1", time.Now())
		gt.NoError(t, repo.Register().Save(ctx, reg))

		reg.Risks[0].NumericScore = 0
		reg.Stats.CountByLevel[types.RiskLevelHigh] = 99

		got, err := repo.Register().Get(ctx, "r1")
		gt.NoError(t, err)
		gt.Number(t, got.Risks[0].NumericScore).Equal(6.0)
		gt.Number(t, got.Stats.CountByLevel[types.RiskLevelHigh]).Equal(1)
	})
}

func TestSnapshotRepository(t *testing.T) {
	ctx := context.Background()

	snap := func(id model.SnapshotID, day int) *model.ForecastSnapshot {
		return &model.ForecastSnapshot{
			ID:        id,
			Timestamp: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			MeanScore: float64(day),
		}
	}

	t.Run("list returns snapshots in timestamp order", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Snapshot().Append(ctx, snap("s3", 3)))
		gt.NoError(t, repo.Snapshot().Append(ctx, snap("s1", 1)))
		gt.NoError(t, repo.Snapshot().Append(ctx, snap("s2", 2)))

		listed, err := repo.Snapshot().List(ctx)
		gt.NoError(t, err)
		gt.Array(t, listed).Length(3)
		gt.Value(t, listed[0].ID).Equal(model.SnapshotID("s1"))
		gt.Value(t, listed[1].ID).Equal(model.SnapshotID("s2"))
		gt.Value(t, listed[2].ID).Equal(model.SnapshotID("s3"))
	})

	t.Run("duplicate snapshot ID is rejected", func(t *testing.T) {
		repo := memory.New()
		gt.NoError(t, repo.Snapshot().Append(ctx, snap("s1", 1)))
		gt.Error(t, repo.Snapshot().Append(ctx, snap("s1", 2)))
	})

	t.Run("empty history lists empty", func(t *testing.T) {
		repo := memory.New()
		listed, err := repo.Snapshot().List(ctx)
		gt.NoError(t, err)
		gt.Array(t, listed).Length(0)
	})
}
