package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

func TestSourceKind(t *testing.T) {
	t.Run("all kinds are valid", func(t *testing.T) {
		for _, k := range types.AllSourceKinds() {
			gt.Bool(t, k.IsValid()).True()
		}
	})

	t.Run("parse rejects unknown kind", func(t *testing.T) {
		_, err := types.ParseSourceKind("FIREWALL_LOG")
		gt.Error(t, err)
	})

	t.Run("parse accepts known kind", func(t *testing.T) {
		k, err := types.ParseSourceKind("ML_THREAT")
		gt.NoError(t, err)
		gt.Value(t, k).Equal(types.SourceKindMLThreat)
	})
}

func TestLikelihoodIndex(t *testing.T) {
	tests := []struct {
		band  types.Likelihood
		index int
	}{
		{types.LikelihoodVeryLow, 1},
		{types.LikelihoodLow, 2},
		{types.LikelihoodMedium, 3},
		{types.LikelihoodHigh, 4},
		{types.LikelihoodVeryHigh, 5},
	}
	for _, tt := range tests {
		gt.Number(t, tt.band.Index()).Equal(tt.index)
	}
}

func TestConsequenceIndex(t *testing.T) {
	tests := []struct {
		band  types.Consequence
		index int
	}{
		{types.ConsequenceNegligible, 1},
		{types.ConsequenceMinor, 2},
		{types.ConsequenceModerate, 3},
		{types.ConsequenceMajor, 4},
		{types.ConsequenceCatastrophic, 5},
	}
	for _, tt := range tests {
		gt.Number(t, tt.band.Index()).Equal(tt.index)
	}
}

func TestRiskLevelWeight(t *testing.T) {
	levels := types.AllRiskLevels()
	for i := 1; i < len(levels); i++ {
		gt.Bool(t, levels[i].Weight() > levels[i-1].Weight()).True()
	}
}

func TestTreatmentParse(t *testing.T) {
	for _, tr := range types.AllTreatments() {
		parsed, err := types.ParseTreatment(tr.String())
		gt.NoError(t, err)
		gt.Value(t, parsed).Equal(tr)
	}

	_, err := types.ParseTreatment("MITIGATE")
	gt.Error(t, err)
}

func TestTrendDirectionParse(t *testing.T) {
	for _, d := range types.AllTrendDirections() {
		parsed, err := types.ParseTrendDirection(d.String())
		gt.NoError(t, err)
		gt.Value(t, parsed).Equal(d)
	}

	_, err := types.ParseTrendDirection("SIDEWAYS")
	gt.Error(t, err)
}
