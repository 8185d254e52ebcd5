package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := &model.RiskRegister{
		ID: "reg-1",
		Risks: []model.EvaluatedRisk{
			{Event: model.RiskEvent{ID: "ev-extreme"}, Level: types.RiskLevelExtreme, PriorityRank: 1},
			{Event: model.RiskEvent{ID: "ev-high"}, Level: types.RiskLevelHigh, PriorityRank: 2},
			{Event: model.RiskEvent{ID: "ev-low"}, Level: types.RiskLevelLow, PriorityRank: 3},
		},
		Stats: model.RegisterStats{
			MeanScore:   4.2,
			MedianScore: 3.8,
			CountByLevel: map[types.RiskLevel]int{
				types.RiskLevelExtreme: 1,
				types.RiskLevelHigh:    1,
				types.RiskLevelLow:     1,
			},
		},
	}

	snap := model.NewSnapshot("snap-1", reg, now)

	gt.Value(t, snap.RegisterID).Equal(model.RegisterID("reg-1"))
	gt.Value(t, snap.Timestamp).Equal(now)
	gt.Number(t, snap.TotalRisks).Equal(3)
	gt.Number(t, snap.MeanScore).Equal(4.2)

	t.Run("only severe risks are tracked as open", func(t *testing.T) {
		gt.Array(t, snap.OpenSevereRisks).Length(2)
		gt.Bool(t, snap.Contains("ev-extreme")).True()
		gt.Bool(t, snap.Contains("ev-high")).True()
		gt.Bool(t, snap.Contains("ev-low")).False()
	})

	t.Run("count by level is copied, not aliased", func(t *testing.T) {
		snap.CountByLevel[types.RiskLevelExtreme] = 99
		gt.Number(t, reg.Stats.CountByLevel[types.RiskLevelExtreme]).Equal(1)
	})
}

func TestRisksAtOrAbove(t *testing.T) {
	reg := &model.RiskRegister{
		Risks: []model.EvaluatedRisk{
			{Level: types.RiskLevelExtreme},
			{Level: types.RiskLevelHigh},
			{Level: types.RiskLevelMedium},
			{Level: types.RiskLevelLow},
		},
	}

	gt.Array(t, reg.RisksAtOrAbove(types.RiskLevelLow)).Length(4)
	gt.Array(t, reg.RisksAtOrAbove(types.RiskLevelHigh)).Length(2)
	gt.Array(t, reg.RisksAtOrAbove(types.RiskLevelExtreme)).Length(1)
}
