package engine

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// residualRetention is the fraction of the score assumed to remain after the
// baseline mitigation for Reduce and Avoid treatments. A planning estimate,
// not a guarantee.
const residualRetention = 0.4

// Evaluate compares analyzed risks against the criteria and produces a
// ranked register for one asset batch. Ranks assigned here are local; the
// aggregator assigns a fresh total order when registers are merged.
func Evaluate(analyzed []model.AnalyzedRisk, crit *criteria.RiskCriteria, id model.RegisterID, at time.Time) (*model.RiskRegister, error) {
	if crit == nil {
		return nil, goerr.Wrap(types.ErrPolicyViolation, "risk criteria are required for evaluation")
	}

	risks := make([]model.EvaluatedRisk, 0, len(analyzed))
	for _, ar := range analyzed {
		level, err := crit.Matrix.Lookup(ar.Likelihood, ar.Consequence)
		if err != nil {
			return nil, goerr.Wrap(err, "matrix lookup failed during evaluation",
				goerr.V("event_id", ar.Event.ID))
		}

		treatment := recommendTreatment(level, ar.NumericScore, ar.Event.Cause, crit)

		risks = append(risks, model.EvaluatedRisk{
			Event:         ar.Event,
			Likelihood:    ar.Likelihood,
			Consequence:   ar.Consequence,
			NumericScore:  ar.NumericScore,
			Level:         level,
			ResidualScore: residualScore(ar.NumericScore, treatment),
			Treatment:     treatment,
		})
	}

	rankRisks(risks)

	return &model.RiskRegister{
		ID:          id,
		GeneratedAt: at,
		Risks:       risks,
	}, nil
}

// recommendTreatment applies the policy's treatment decision table.
func recommendTreatment(level types.RiskLevel, score float64, cause string, crit *criteria.RiskCriteria) types.Treatment {
	switch {
	case level == types.RiskLevelExtreme:
		return types.TreatmentAvoid
	case (level == types.RiskLevelHigh || level == types.RiskLevelMedium) && score > crit.RiskAppetite:
		return types.TreatmentReduce
	case level == types.RiskLevelMedium && score <= crit.RiskAppetite && crit.IsInsurable(cause):
		return types.TreatmentTransfer
	default:
		return types.TreatmentAccept
	}
}

// residualScore computes the score assumed after the baseline mitigation for
// the given treatment. Accept and Transfer leave the score unchanged: the
// risk itself is not reduced, only retained or shifted.
func residualScore(score float64, treatment types.Treatment) float64 {
	switch treatment {
	case types.TreatmentAvoid, types.TreatmentReduce:
		return score * residualRetention
	default:
		return score
	}
}

// rankRisks sorts risks by the priority ordering key and assigns 1-based
// ranks: level descending, score descending, then event ID ascending so exact
// score ties break deterministically.
func rankRisks(risks []model.EvaluatedRisk) {
	sort.Slice(risks, func(i, j int) bool {
		return risks[i].Less(&risks[j])
	})
	for i := range risks {
		risks[i].PriorityRank = i + 1
	}
}
