package engine

import (
	"math"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

const (
	// systemicAssetThreshold is the minimum number of distinct assets a cause
	// must recur on before it is treated as systemic.
	systemicAssetThreshold = 3

	// systemicBoost is the score multiplier for systemic risks: a repeated
	// misconfiguration across many hosts is categorically worse than an
	// isolated one, and that must be visible in ranking.
	systemicBoost = 1.15

	// topRiskCount is the number of top-ranked risks attached to the
	// register statistics.
	topRiskCount = 10
)

// Aggregate merges per-asset registers into the organization-level register:
// a fresh global rank over all risks, systemic correlation flags, and
// aggregate statistics computed once.
func Aggregate(registers []*model.RiskRegister, crit *criteria.RiskCriteria, id model.RegisterID, at time.Time) (*model.RiskRegister, error) {
	if crit == nil {
		return nil, goerr.Wrap(types.ErrPolicyViolation, "risk criteria are required for aggregation")
	}

	var risks []model.EvaluatedRisk
	dropped := 0
	for _, reg := range registers {
		risks = append(risks, reg.Risks...)
		dropped += reg.DroppedFindings
	}

	markSystemic(risks)
	rankRisks(risks)

	out := &model.RiskRegister{
		ID:              id,
		GeneratedAt:     at,
		Risks:           risks,
		Stats:           computeStats(risks),
		DroppedFindings: dropped,
	}
	out.AssetSummaries = summarizeAssets(risks)
	if len(out.AssetSummaries) > 0 {
		out.MostVulnerableAsset = out.AssetSummaries[0].AssetRef
	}

	return out, nil
}

// markSystemic flags risks whose cause recurs across enough distinct assets
// and boosts their score, capped at the score domain maximum. Residual
// scores are recomputed from the boosted score, never retrofitted.
func markSystemic(risks []model.EvaluatedRisk) {
	assetsByCause := make(map[string]map[string]struct{})
	for _, r := range risks {
		assets, ok := assetsByCause[r.Event.Cause]
		if !ok {
			assets = make(map[string]struct{})
			assetsByCause[r.Event.Cause] = assets
		}
		assets[r.Event.AssetRef] = struct{}{}
	}

	for i := range risks {
		if len(assetsByCause[risks[i].Event.Cause]) < systemicAssetThreshold {
			continue
		}
		risks[i].Systemic = true
		boosted := risks[i].NumericScore * systemicBoost
		if boosted > criteria.ScoreDomainMax {
			boosted = criteria.ScoreDomainMax
		}
		risks[i].NumericScore = boosted
		risks[i].ResidualScore = residualScore(boosted, risks[i].Treatment)
	}
}

func computeStats(risks []model.EvaluatedRisk) model.RegisterStats {
	stats := model.RegisterStats{
		CountByLevel: make(map[types.RiskLevel]int),
	}
	if len(risks) == 0 {
		return stats
	}

	scores := make([]float64, 0, len(risks))
	stats.MinScore = math.Inf(1)
	for _, r := range risks {
		stats.CountByLevel[r.Level]++
		stats.TotalExposure += r.NumericScore
		if r.NumericScore > stats.MaxScore {
			stats.MaxScore = r.NumericScore
		}
		if r.NumericScore < stats.MinScore {
			stats.MinScore = r.NumericScore
		}
		scores = append(scores, r.NumericScore)
	}

	stats.MeanScore = stats.TotalExposure / float64(len(scores))

	sort.Float64s(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		stats.MedianScore = (scores[mid-1] + scores[mid]) / 2
	} else {
		stats.MedianScore = scores[mid]
	}

	var variance float64
	for _, s := range scores {
		d := s - stats.MeanScore
		variance += d * d
	}
	stats.StdDev = math.Sqrt(variance / float64(len(scores)))

	n := topRiskCount
	if n > len(risks) {
		n = len(risks)
	}
	stats.TopRisks = append(stats.TopRisks, risks[:n]...)

	return stats
}

// summarizeAssets builds the per-asset aggregation view, ordered by
// cumulative score descending with asset ref as the deterministic tie break.
func summarizeAssets(risks []model.EvaluatedRisk) []model.AssetSummary {
	byAsset := make(map[string]*model.AssetSummary)
	for _, r := range risks {
		s, ok := byAsset[r.Event.AssetRef]
		if !ok {
			s = &model.AssetSummary{AssetRef: r.Event.AssetRef}
			byAsset[r.Event.AssetRef] = s
		}
		s.CumulativeScore += r.NumericScore
		s.RiskCount++
		if r.NumericScore > s.HighestScore {
			s.HighestScore = r.NumericScore
		}
	}

	summaries := make([]model.AssetSummary, 0, len(byAsset))
	for _, s := range byAsset {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CumulativeScore != summaries[j].CumulativeScore {
			return summaries[i].CumulativeScore > summaries[j].CumulativeScore
		}
		return summaries[i].AssetRef < summaries[j].AssetRef
	})
	return summaries
}
