package model

import (
	"time"

	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// SnapshotID identifies one archived forecast snapshot
type SnapshotID string

// ForecastSnapshot is the summary of one register archived for trend
// analysis. Snapshot history is append-only; history is never rewritten.
type ForecastSnapshot struct {
	ID         SnapshotID `json:"id"`
	RegisterID RegisterID `json:"register_id"`
	Timestamp  time.Time  `json:"timestamp"`

	TotalRisks   int                     `json:"total_risks"`
	MeanScore    float64                 `json:"mean_score"`
	MedianScore  float64                 `json:"median_score"`
	CountByLevel map[types.RiskLevel]int `json:"count_by_level"`

	// OpenSevereRisks holds the High and Extreme risks present in the
	// register, used to measure how long a severe risk persists unresolved.
	OpenSevereRisks []SevereRisk `json:"open_severe_risks"`
}

// SevereRisk records one open High or Extreme risk within a snapshot.
type SevereRisk struct {
	EventID EventID         `json:"event_id"`
	Level   types.RiskLevel `json:"level"`
}

// NewSnapshot derives a snapshot from a register. The register is read only;
// the snapshot copies everything it needs.
func NewSnapshot(id SnapshotID, reg *RiskRegister, at time.Time) *ForecastSnapshot {
	snap := &ForecastSnapshot{
		ID:           id,
		RegisterID:   reg.ID,
		Timestamp:    at,
		TotalRisks:   len(reg.Risks),
		MeanScore:    reg.Stats.MeanScore,
		MedianScore:  reg.Stats.MedianScore,
		CountByLevel: make(map[types.RiskLevel]int, len(reg.Stats.CountByLevel)),
	}
	for level, n := range reg.Stats.CountByLevel {
		snap.CountByLevel[level] = n
	}
	for _, er := range reg.RisksAtOrAbove(types.RiskLevelHigh) {
		snap.OpenSevereRisks = append(snap.OpenSevereRisks, SevereRisk{
			EventID: er.Event.ID,
			Level:   er.Level,
		})
	}
	return snap
}

// Contains reports whether the snapshot recorded the given severe risk.
func (s *ForecastSnapshot) Contains(id EventID) bool {
	for _, open := range s.OpenSevereRisks {
		if open.EventID == id {
			return true
		}
	}
	return false
}
