package model

import (
	"time"

	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// RegisterID identifies one assessment run's register
type RegisterID string

// RegisterStats holds the aggregate statistics attached to a register.
// Computed once by the aggregator; never updated in place.
type RegisterStats struct {
	CountByLevel  map[types.RiskLevel]int `json:"count_by_level"`
	MeanScore     float64                 `json:"mean_score"`
	MedianScore   float64                 `json:"median_score"`
	MaxScore      float64                 `json:"max_score"`
	MinScore      float64                 `json:"min_score"`
	StdDev        float64                 `json:"std_dev"`
	TotalExposure float64                 `json:"total_exposure"`
	TopRisks      []EvaluatedRisk         `json:"top_risks"`
}

// AssetSummary is the per-asset aggregation view: how much risk one asset
// carries across all of its findings.
type AssetSummary struct {
	AssetRef        string  `json:"asset_ref"`
	CumulativeScore float64 `json:"cumulative_score"`
	RiskCount       int     `json:"risk_count"`
	HighestScore    float64 `json:"highest_score"`
}

// RiskRegister is the ranked, de-duplicated outcome of one assessment run.
// It is a value snapshot: downstream consumers read it but never mutate it,
// and a new run always produces a new register.
type RiskRegister struct {
	ID          RegisterID `json:"id"`
	GeneratedAt time.Time  `json:"generated_at"`

	// Risks are ordered by PriorityRank ascending.
	Risks []EvaluatedRisk `json:"risks"`

	Stats RegisterStats `json:"stats"`

	// AssetSummaries are ordered by cumulative score descending.
	AssetSummaries      []AssetSummary `json:"asset_summaries"`
	MostVulnerableAsset string         `json:"most_vulnerable_asset,omitempty"`

	// DroppedFindings counts malformed input records skipped during
	// identification.
	DroppedFindings int `json:"dropped_findings"`
}

// RisksAtOrAbove returns the risks whose level weight is at least that of
// the given level, in rank order.
func (r *RiskRegister) RisksAtOrAbove(level types.RiskLevel) []EvaluatedRisk {
	var out []EvaluatedRisk
	for _, er := range r.Risks {
		if er.Level.Weight() >= level.Weight() {
			out = append(out, er)
		}
	}
	return out
}
