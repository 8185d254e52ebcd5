package model

import (
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// EvaluatedRisk wraps an analyzed risk with the policy judgement: qualitative
// level, priority rank, residual score and treatment recommendation.
//
// NumericScore and Level are two independent views of the same risk: the
// score is the continuous product of the band ordinals, the level comes from
// the matrix lookup. Neither is derived from the other.
type EvaluatedRisk struct {
	Event        RiskEvent         `json:"event"`
	Likelihood   types.Likelihood  `json:"likelihood"`
	Consequence  types.Consequence `json:"consequence"`
	NumericScore float64           `json:"numeric_score"`
	Level        types.RiskLevel   `json:"level"`

	// PriorityRank is 1-based; 1 = treat first. Assigned per register, and
	// reassigned as a fresh total order when registers are merged.
	PriorityRank int `json:"priority_rank"`

	ResidualScore float64         `json:"residual_score"`
	Treatment     types.Treatment `json:"treatment"`

	// Systemic marks a risk whose cause recurs across three or more assets.
	Systemic bool `json:"systemic"`
}

// Less reports whether r should be ranked before other: level weight
// descending, then numeric score descending, then event ID ascending so that
// exact score ties still order deterministically.
func (r *EvaluatedRisk) Less(other *EvaluatedRisk) bool {
	if r.Level.Weight() != other.Level.Weight() {
		return r.Level.Weight() > other.Level.Weight()
	}
	if r.NumericScore != other.NumericScore {
		return r.NumericScore > other.NumericScore
	}
	return r.Event.ID < other.Event.ID
}
