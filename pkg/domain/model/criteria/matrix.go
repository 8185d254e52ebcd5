package criteria

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// RiskMatrix is the total function (Likelihood, Consequence) -> RiskLevel,
// stored as a fixed 5x5 table indexed by band ordinals. Every cell must be
// populated; there is no default or fallback cell.
type RiskMatrix struct {
	cells [5][5]types.RiskLevel
}

// NewRiskMatrix builds a matrix from explicit cell assignments. It fails with
// ErrConfig if any of the 25 cells is missing or holds an invalid level.
func NewRiskMatrix(cells map[types.Likelihood]map[types.Consequence]types.RiskLevel) (*RiskMatrix, error) {
	var m RiskMatrix
	for _, l := range types.AllLikelihoods() {
		row, ok := cells[l]
		if !ok {
			return nil, goerr.Wrap(types.ErrConfig, "risk matrix row is missing",
				goerr.V("likelihood", l))
		}
		for _, c := range types.AllConsequences() {
			level, ok := row[c]
			if !ok {
				return nil, goerr.Wrap(types.ErrConfig, "risk matrix cell is missing",
					goerr.V("likelihood", l), goerr.V("consequence", c))
			}
			if !level.IsValid() {
				return nil, goerr.Wrap(types.ErrConfig, "risk matrix cell has invalid level",
					goerr.V("likelihood", l), goerr.V("consequence", c), goerr.V("level", level))
			}
			m.cells[l.Index()-1][c.Index()-1] = level
		}
	}
	return &m, nil
}

// Lookup returns the risk level for the given band pair. The matrix is total
// over valid bands; invalid bands yield an error rather than a guess.
func (m *RiskMatrix) Lookup(l types.Likelihood, c types.Consequence) (types.RiskLevel, error) {
	if !l.IsValid() {
		return "", goerr.Wrap(types.ErrPolicyViolation, "matrix lookup with invalid likelihood",
			goerr.V("likelihood", l))
	}
	if !c.IsValid() {
		return "", goerr.Wrap(types.ErrPolicyViolation, "matrix lookup with invalid consequence",
			goerr.V("consequence", c))
	}
	return m.cells[l.Index()-1][c.Index()-1], nil
}

// Validate checks totality: all 25 cells hold a valid risk level.
func (m *RiskMatrix) Validate() error {
	for _, l := range types.AllLikelihoods() {
		for _, c := range types.AllConsequences() {
			level := m.cells[l.Index()-1][c.Index()-1]
			if !level.IsValid() {
				return goerr.Wrap(types.ErrConfig, "risk matrix cell is unpopulated",
					goerr.V("likelihood", l), goerr.V("consequence", c))
			}
		}
	}
	return nil
}

// DefaultMatrix returns the standard ISO 31000 aligned 5x5 matrix.
func DefaultMatrix() *RiskMatrix {
	m, err := NewRiskMatrix(map[types.Likelihood]map[types.Consequence]types.RiskLevel{
		types.LikelihoodVeryHigh: {
			types.ConsequenceCatastrophic: types.RiskLevelExtreme,
			types.ConsequenceMajor:        types.RiskLevelExtreme,
			types.ConsequenceModerate:     types.RiskLevelHigh,
			types.ConsequenceMinor:        types.RiskLevelMedium,
			types.ConsequenceNegligible:   types.RiskLevelLow,
		},
		types.LikelihoodHigh: {
			types.ConsequenceCatastrophic: types.RiskLevelExtreme,
			types.ConsequenceMajor:        types.RiskLevelHigh,
			types.ConsequenceModerate:     types.RiskLevelHigh,
			types.ConsequenceMinor:        types.RiskLevelMedium,
			types.ConsequenceNegligible:   types.RiskLevelLow,
		},
		types.LikelihoodMedium: {
			types.ConsequenceCatastrophic: types.RiskLevelExtreme,
			types.ConsequenceMajor:        types.RiskLevelHigh,
			types.ConsequenceModerate:     types.RiskLevelMedium,
			types.ConsequenceMinor:        types.RiskLevelMedium,
			types.ConsequenceNegligible:   types.RiskLevelLow,
		},
		types.LikelihoodLow: {
			types.ConsequenceCatastrophic: types.RiskLevelHigh,
			types.ConsequenceMajor:        types.RiskLevelMedium,
			types.ConsequenceModerate:     types.RiskLevelMedium,
			types.ConsequenceMinor:        types.RiskLevelLow,
			types.ConsequenceNegligible:   types.RiskLevelLow,
		},
		types.LikelihoodVeryLow: {
			types.ConsequenceCatastrophic: types.RiskLevelMedium,
			types.ConsequenceMajor:        types.RiskLevelMedium,
			types.ConsequenceModerate:     types.RiskLevelLow,
			types.ConsequenceMinor:        types.RiskLevelLow,
			types.ConsequenceNegligible:   types.RiskLevelLow,
		},
	})
	if err != nil {
		// The default table is statically complete; reaching here means the
		// table above was edited into an invalid state.
		panic(err)
	}
	return m
}
