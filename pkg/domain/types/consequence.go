package types

import "fmt"

// Consequence represents an ordinal consequence band drawn from the risk criteria scale
type Consequence string

const (
	ConsequenceNegligible   Consequence = "NEGLIGIBLE"
	ConsequenceMinor        Consequence = "MINOR"
	ConsequenceModerate     Consequence = "MODERATE"
	ConsequenceMajor        Consequence = "MAJOR"
	ConsequenceCatastrophic Consequence = "CATASTROPHIC"
)

// AllConsequences returns all consequence bands in ascending order
func AllConsequences() []Consequence {
	return []Consequence{
		ConsequenceNegligible,
		ConsequenceMinor,
		ConsequenceModerate,
		ConsequenceMajor,
		ConsequenceCatastrophic,
	}
}

// IsValid checks if the consequence band is valid
func (c Consequence) IsValid() bool {
	switch c {
	case ConsequenceNegligible,
		ConsequenceMinor,
		ConsequenceModerate,
		ConsequenceMajor,
		ConsequenceCatastrophic:
		return true
	default:
		return false
	}
}

// Index returns the 1-based ordinal position of the band (NEGLIGIBLE=1 .. CATASTROPHIC=5).
// Returns 0 for an invalid band.
func (c Consequence) Index() int {
	switch c {
	case ConsequenceNegligible:
		return 1
	case ConsequenceMinor:
		return 2
	case ConsequenceModerate:
		return 3
	case ConsequenceMajor:
		return 4
	case ConsequenceCatastrophic:
		return 5
	default:
		return 0
	}
}

// String returns the string representation of the consequence band
func (c Consequence) String() string {
	return string(c)
}

// ParseConsequence parses a string into a Consequence
func ParseConsequence(s string) (Consequence, error) {
	c := Consequence(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid consequence band: %s", s)
	}
	return c, nil
}
