package types

import "fmt"

// Likelihood represents an ordinal likelihood band drawn from the risk criteria scale
type Likelihood string

const (
	LikelihoodVeryLow  Likelihood = "VERY_LOW"
	LikelihoodLow      Likelihood = "LOW"
	LikelihoodMedium   Likelihood = "MEDIUM"
	LikelihoodHigh     Likelihood = "HIGH"
	LikelihoodVeryHigh Likelihood = "VERY_HIGH"
)

// AllLikelihoods returns all likelihood bands in ascending order
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodVeryLow,
		LikelihoodLow,
		LikelihoodMedium,
		LikelihoodHigh,
		LikelihoodVeryHigh,
	}
}

// IsValid checks if the likelihood band is valid
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodVeryLow,
		LikelihoodLow,
		LikelihoodMedium,
		LikelihoodHigh,
		LikelihoodVeryHigh:
		return true
	default:
		return false
	}
}

// Index returns the 1-based ordinal position of the band (VERY_LOW=1 .. VERY_HIGH=5).
// Returns 0 for an invalid band.
func (l Likelihood) Index() int {
	switch l {
	case LikelihoodVeryLow:
		return 1
	case LikelihoodLow:
		return 2
	case LikelihoodMedium:
		return 3
	case LikelihoodHigh:
		return 4
	case LikelihoodVeryHigh:
		return 5
	default:
		return 0
	}
}

// String returns the string representation of the likelihood band
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood parses a string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	l := Likelihood(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid likelihood band: %s", s)
	}
	return l, nil
}
