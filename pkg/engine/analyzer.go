package engine

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// scoreScale rescales the raw index product (0..16) onto the 0-10 display
// domain.
const scoreScale = criteria.ScoreDomainMax / 16.0

// Analyze derives likelihood, consequence and the continuous score for each
// event against the given criteria.
//
// The score is the product of the zero-based band ordinals, not their sum:
// either a very low likelihood or a negligible consequence damps the score
// toward zero, since either axis alone being safe limits exposure.
func Analyze(events []model.RiskEvent, crit *criteria.RiskCriteria) ([]model.AnalyzedRisk, error) {
	if crit == nil {
		return nil, goerr.Wrap(types.ErrPolicyViolation, "risk criteria are required for analysis")
	}

	analyzed := make([]model.AnalyzedRisk, 0, len(events))
	for _, ev := range events {
		likelihood := crit.LikelihoodFor(ev.RawSeverity)
		consequence := consequenceFor(ev, crit)

		rawScore := float64(likelihood.Index()-1) * float64(consequence.Index()-1)

		analyzed = append(analyzed, model.AnalyzedRisk{
			Event:        ev,
			Likelihood:   likelihood,
			Consequence:  consequence,
			NumericScore: rawScore * scoreScale,
		})
	}

	return analyzed, nil
}

// consequenceFor resolves the consequence band for one event: a hint maps
// directly, an absent hint uses the policy's source-kind default, and a kind
// without a configured default falls back to deriving the band from the raw
// severity.
func consequenceFor(ev model.RiskEvent, crit *criteria.RiskCriteria) types.Consequence {
	if ev.ConsequenceHint != "" {
		// Hints are validated at the identification boundary.
		if c, err := types.ParseConsequence(ev.ConsequenceHint); err == nil {
			return c
		}
	}
	if c, ok := crit.ConsequenceDefaults[ev.SourceKind]; ok {
		return c
	}
	return crit.ConsequenceForScore(ev.RawSeverity)
}
