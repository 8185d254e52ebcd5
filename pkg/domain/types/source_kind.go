package types

import "fmt"

// SourceKind represents the origin of a raw security finding
type SourceKind string

const (
	SourceKindVulnerability SourceKind = "VULNERABILITY"
	SourceKindMLThreat      SourceKind = "ML_THREAT"
	SourceKindAnomaly       SourceKind = "ANOMALY"
)

// AllSourceKinds returns all valid source kinds
func AllSourceKinds() []SourceKind {
	return []SourceKind{
		SourceKindVulnerability,
		SourceKindMLThreat,
		SourceKindAnomaly,
	}
}

// IsValid checks if the source kind is valid
func (s SourceKind) IsValid() bool {
	switch s {
	case SourceKindVulnerability,
		SourceKindMLThreat,
		SourceKindAnomaly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source kind
func (s SourceKind) String() string {
	return string(s)
}

// ParseSourceKind parses a string into a SourceKind
func ParseSourceKind(s string) (SourceKind, error) {
	kind := SourceKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid source kind: %s", s)
	}
	return kind, nil
}
