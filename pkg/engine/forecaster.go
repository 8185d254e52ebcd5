package engine

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// trendSlopeThreshold is the per-period mean score slope below which the
// posture counts as stable.
const trendSlopeThreshold = 0.1

// Forecast projects the near-term risk trend from the snapshot history.
// History must be ordered by timestamp ascending; the caller owns
// persistence and ordering.
//
// Fewer than two snapshots yields ErrInsufficientHistory: forecasting from
// one data point is disallowed rather than silently producing a flat line.
func Forecast(history []*model.ForecastSnapshot, horizon, window int, at time.Time) (*model.TrendProjection, error) {
	if len(history) < 2 {
		return nil, goerr.Wrap(types.ErrInsufficientHistory, "at least two snapshots are required",
			goerr.V(types.SnapshotsKey, len(history)))
	}
	if horizon < 1 {
		return nil, goerr.New("forecast horizon must be at least one period",
			goerr.V("horizon", horizon))
	}
	if window < 2 {
		window = criteria.DefaultForecastWindow
	}
	if window > len(history) {
		window = len(history)
	}

	trailing := history[len(history)-window:]
	slope := meanScoreSlope(trailing)

	direction := types.TrendStable
	switch {
	case slope > trendSlopeThreshold:
		direction = types.TrendWorsening
	case slope < -trendSlopeThreshold:
		direction = types.TrendImproving
	}

	latest := trailing[len(trailing)-1]
	projected := make([]float64, horizon)
	for i := range projected {
		p := latest.MeanScore + slope*float64(i+1)
		if p < 0 {
			p = 0
		}
		if p > criteria.ScoreDomainMax {
			p = criteria.ScoreDomainMax
		}
		projected[i] = p
	}

	proj := &model.TrendProjection{
		GeneratedAt:         at,
		Direction:           direction,
		ProjectedMeanScores: projected,
		ChangeRate:          slope,
		Window:              window,
		Horizon:             horizon,
		ExploitEstimates:    estimateTimeToExploit(history),
	}
	proj.Recommendations = recommend(latest, direction)

	return proj, nil
}

// meanScoreSlope fits a least-squares line through the trailing mean scores
// and returns its per-period slope.
func meanScoreSlope(snaps []*model.ForecastSnapshot) float64 {
	n := float64(len(snaps))
	var sumX, sumY, sumXY, sumXX float64
	for i, s := range snaps {
		x := float64(i)
		sumX += x
		sumY += s.MeanScore
		sumXY += x * s.MeanScore
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// estimateTimeToExploit assigns a coarse time-to-exploit band to each severe
// risk open in the latest snapshot, based on how long it has persisted
// unresolved across consecutive snapshots.
func estimateTimeToExploit(history []*model.ForecastSnapshot) []model.ExploitEstimate {
	latest := history[len(history)-1]

	var estimates []model.ExploitEstimate
	for _, open := range latest.OpenSevereRisks {
		firstSeen := latest.Timestamp
		for i := len(history) - 2; i >= 0; i-- {
			if !history[i].Contains(open.EventID) {
				break
			}
			firstSeen = history[i].Timestamp
		}
		persisted := latest.Timestamp.Sub(firstSeen)

		estimates = append(estimates, model.ExploitEstimate{
			EventID:      open.EventID,
			Level:        open.Level,
			PersistedFor: persisted,
			Band:         exploitBand(open.Level, persisted),
		})
	}
	return estimates
}

// exploitBand maps level and persistence age to a qualitative band: extreme
// risks start closer to exploitation, and the longer a severe risk stays
// open the shorter the assumed window becomes.
func exploitBand(level types.RiskLevel, persisted time.Duration) types.ExploitBand {
	if level == types.RiskLevelExtreme {
		if persisted >= 3*24*time.Hour {
			return types.ExploitBandImminent
		}
		return types.ExploitBandNear
	}
	switch {
	case persisted >= 30*24*time.Hour:
		return types.ExploitBandNear
	case persisted >= 7*24*time.Hour:
		return types.ExploitBandMedium
	default:
		return types.ExploitBandDistant
	}
}

func recommend(latest *model.ForecastSnapshot, direction types.TrendDirection) []string {
	var recs []string

	if direction == types.TrendWorsening {
		recs = append(recs, "Risk posture is worsening: schedule a security review before the next assessment cycle")
	}
	if n := latest.CountByLevel[types.RiskLevelExtreme]; n > 0 {
		recs = append(recs, fmt.Sprintf("Address %d extreme risk(s) immediately", n))
	}
	if latest.TotalRisks > 10 {
		recs = append(recs, "High risk volume: consider a systematic remediation program instead of ad hoc fixes")
	}
	if direction == types.TrendImproving && latest.CountByLevel[types.RiskLevelExtreme] == 0 {
		recs = append(recs, "Risk posture is improving: continue current remediation cadence")
	}
	return recs
}
