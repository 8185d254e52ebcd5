package types

import "fmt"

// Treatment represents the recommended response strategy for an evaluated risk
type Treatment string

const (
	TreatmentAvoid    Treatment = "AVOID"
	TreatmentReduce   Treatment = "REDUCE"
	TreatmentTransfer Treatment = "TRANSFER"
	TreatmentAccept   Treatment = "ACCEPT"
)

// AllTreatments returns all valid treatment recommendations
func AllTreatments() []Treatment {
	return []Treatment{
		TreatmentAvoid,
		TreatmentReduce,
		TreatmentTransfer,
		TreatmentAccept,
	}
}

// IsValid checks if the treatment is valid
func (t Treatment) IsValid() bool {
	switch t {
	case TreatmentAvoid,
		TreatmentReduce,
		TreatmentTransfer,
		TreatmentAccept:
		return true
	default:
		return false
	}
}

// String returns the string representation of the treatment
func (t Treatment) String() string {
	return string(t)
}

// ParseTreatment parses a string into a Treatment
func ParseTreatment(s string) (Treatment, error) {
	tr := Treatment(s)
	if !tr.IsValid() {
		return "", fmt.Errorf("invalid treatment: %s", s)
	}
	return tr, nil
}
