package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// EventID is the stable identifier of a normalized risk event. It is derived
// from the finding identity, so re-running analysis on the same input yields
// the same ID.
type EventID string

// NewEventID derives a deterministic event ID from the identity fields of a
// finding. Severity is excluded on purpose: duplicates with different
// severities must collapse to one event.
func NewEventID(kind types.SourceKind, assetRef, cause string) EventID {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", kind, assetRef, cause))
	return EventID(hex.EncodeToString(h[:12]))
}

// String returns the string representation of EventID
func (id EventID) String() string {
	return string(id)
}

// RiskEvent is a normalized finding. Created once per identified finding and
// never mutated afterwards.
type RiskEvent struct {
	ID              EventID          `json:"id"`
	SourceKind      types.SourceKind `json:"source_kind"`
	AssetRef        string           `json:"asset_ref"`
	RawSeverity     float64          `json:"raw_severity"`
	Cause           string           `json:"cause"`
	ConsequenceHint string           `json:"consequence_hint,omitempty"`
	CVE             string           `json:"cve,omitempty"`
}

// AnalyzedRisk pairs a risk event with its derived likelihood, consequence
// and continuous score.
type AnalyzedRisk struct {
	Event        RiskEvent         `json:"event"`
	Likelihood   types.Likelihood  `json:"likelihood"`
	Consequence  types.Consequence `json:"consequence"`
	NumericScore float64           `json:"numeric_score"`
}
