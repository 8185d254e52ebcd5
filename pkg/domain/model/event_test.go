package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

func TestNewEventID(t *testing.T) {
	t.Run("same identity yields same ID", func(t *testing.T) {
		a := model.NewEventID(types.SourceKindVulnerability, "web-01", "unpatched-openssl")
		b := model.NewEventID(types.SourceKindVulnerability, "web-01", "unpatched-openssl")
		gt.Value(t, a).Equal(b)
	})

	t.Run("identity fields all contribute", func(t *testing.T) {
		base := model.NewEventID(types.SourceKindVulnerability, "web-01", "unpatched-openssl")
		gt.Value(t, model.NewEventID(types.SourceKindAnomaly, "web-01", "unpatched-openssl")).NotEqual(base)
		gt.Value(t, model.NewEventID(types.SourceKindVulnerability, "web-02", "unpatched-openssl")).NotEqual(base)
		gt.Value(t, model.NewEventID(types.SourceKindVulnerability, "web-01", "weak-tls-config")).NotEqual(base)
	})

	t.Run("separator prevents field bleed", func(t *testing.T) {
		a := model.NewEventID(types.SourceKindAnomaly, "web", "01-cause")
		b := model.NewEventID(types.SourceKindAnomaly, "web-01", "cause")
		gt.Value(t, a).NotEqual(b)
	})
}

func TestRawFindingValidate(t *testing.T) {
	valid := model.RawFinding{
		AssetRef:    "db-01",
		SourceKind:  "VULNERABILITY",
		RawSeverity: 7.5,
		Cause:       "unpatched-kernel",
	}

	t.Run("valid finding passes", func(t *testing.T) {
		f := valid
		gt.NoError(t, f.Validate())
	})

	t.Run("severity bounds are inclusive", func(t *testing.T) {
		f := valid
		f.RawSeverity = 0
		gt.NoError(t, f.Validate())
		f.RawSeverity = 10
		gt.NoError(t, f.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*model.RawFinding)
	}{
		{"missing asset ref", func(f *model.RawFinding) { f.AssetRef = "" }},
		{"unknown source kind", func(f *model.RawFinding) { f.SourceKind = "SIEM" }},
		{"severity below domain", func(f *model.RawFinding) { f.RawSeverity = -0.1 }},
		{"severity above domain", func(f *model.RawFinding) { f.RawSeverity = 10.1 }},
		{"missing cause", func(f *model.RawFinding) { f.Cause = "" }},
		{"unparsable consequence hint", func(f *model.RawFinding) { f.ConsequenceHint = "HUGE" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()
			gt.Error(t, err).Is(types.ErrMalformedFinding)
		})
	}
}

func TestEvaluatedRiskLess(t *testing.T) {
	t.Run("level weight dominates score", func(t *testing.T) {
		high := model.EvaluatedRisk{Level: types.RiskLevelHigh, NumericScore: 3.0}
		medium := model.EvaluatedRisk{Level: types.RiskLevelMedium, NumericScore: 9.0}
		gt.Bool(t, high.Less(&medium)).True()
		gt.Bool(t, medium.Less(&high)).False()
	})

	t.Run("score breaks level ties", func(t *testing.T) {
		a := model.EvaluatedRisk{Level: types.RiskLevelHigh, NumericScore: 6.0}
		b := model.EvaluatedRisk{Level: types.RiskLevelHigh, NumericScore: 4.0}
		gt.Bool(t, a.Less(&b)).True()
	})

	t.Run("event ID breaks exact score ties", func(t *testing.T) {
		a := model.EvaluatedRisk{Level: types.RiskLevelLow, NumericScore: 1.0}
		a.Event.ID = "aaa"
		b := model.EvaluatedRisk{Level: types.RiskLevelLow, NumericScore: 1.0}
		b.Event.ID = "bbb"
		gt.Bool(t, a.Less(&b)).True()
		gt.Bool(t, b.Less(&a)).False()
	})
}
