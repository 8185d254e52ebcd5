package model

import (
	"time"

	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// ExploitEstimate is a coarse qualitative time-to-exploit band for one
// severe risk, derived from how long it has persisted unresolved across
// snapshots. It is not a precise ETA.
type ExploitEstimate struct {
	EventID      EventID           `json:"event_id"`
	Level        types.RiskLevel   `json:"level"`
	PersistedFor time.Duration     `json:"persisted_for"`
	Band         types.ExploitBand `json:"band"`
}

// TrendProjection is the forecaster's output: near-term direction and
// per-period mean score projections over the requested horizon.
type TrendProjection struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Direction   types.TrendDirection `json:"direction"`

	// ProjectedMeanScores has one entry per future period, clamped to the
	// score domain.
	ProjectedMeanScores []float64 `json:"projected_mean_scores"`

	// ChangeRate is the per-period slope of the mean score over the trailing
	// window.
	ChangeRate float64 `json:"change_rate"`

	Window  int `json:"window"`
	Horizon int `json:"horizon"`

	ExploitEstimates []ExploitEstimate `json:"exploit_estimates,omitempty"`
	Recommendations  []string          `json:"recommendations,omitempty"`
}
