package types

import "fmt"

// TrendDirection represents the projected direction of the overall risk posture
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendStable    TrendDirection = "STABLE"
	TrendWorsening TrendDirection = "WORSENING"
)

// AllTrendDirections returns all valid trend directions
func AllTrendDirections() []TrendDirection {
	return []TrendDirection{
		TrendImproving,
		TrendStable,
		TrendWorsening,
	}
}

// IsValid checks if the trend direction is valid
func (t TrendDirection) IsValid() bool {
	switch t {
	case TrendImproving,
		TrendStable,
		TrendWorsening:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trend direction
func (t TrendDirection) String() string {
	return string(t)
}

// ParseTrendDirection parses a string into a TrendDirection
func ParseTrendDirection(s string) (TrendDirection, error) {
	d := TrendDirection(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid trend direction: %s", s)
	}
	return d, nil
}

// ExploitBand represents a coarse qualitative estimate of time until exploitation
type ExploitBand string

const (
	ExploitBandImminent ExploitBand = "IMMINENT"    // < 24 hours
	ExploitBandNear     ExploitBand = "NEAR_TERM"   // 1-7 days
	ExploitBandMedium   ExploitBand = "MEDIUM_TERM" // 7-30 days
	ExploitBandDistant  ExploitBand = "DISTANT"     // 30+ days
)

// IsValid checks if the exploit band is valid
func (b ExploitBand) IsValid() bool {
	switch b {
	case ExploitBandImminent,
		ExploitBandNear,
		ExploitBandMedium,
		ExploitBandDistant:
		return true
	default:
		return false
	}
}

// String returns the string representation of the exploit band
func (b ExploitBand) String() string {
	return string(b)
}
