package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model/criteria"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// PolicyConfig is the TOML shape of the risk policy document
type PolicyConfig struct {
	RiskAppetite    float64           `toml:"risk_appetite"`
	ForecastWindow  int               `toml:"forecast_window"`
	InsurableCauses []string          `toml:"insurable_causes"`
	Tolerance       []ToleranceBand   `toml:"tolerance"`
	Likelihood      []ScaleBand       `toml:"likelihood"`
	Consequence     []ScaleBand       `toml:"consequence"`
	Defaults        map[string]string `toml:"defaults"`
	Matrix          []MatrixRow       `toml:"matrix"`
}

// ToleranceBand maps a score range to a level label
type ToleranceBand struct {
	UpperBound float64 `toml:"upper_bound"`
	Level      string  `toml:"level"`
}

// ScaleBand defines one named band's numeric bucket
type ScaleBand struct {
	Band       string  `toml:"band"`
	UpperBound float64 `toml:"upper_bound"`
}

// MatrixRow is one likelihood row of the risk matrix, with an explicit cell
// per consequence band. Every cell must be present; there is no implicit
// default matrix.
type MatrixRow struct {
	Likelihood   string `toml:"likelihood"`
	Negligible   string `toml:"negligible"`
	Minor        string `toml:"minor"`
	Moderate     string `toml:"moderate"`
	Major        string `toml:"major"`
	Catastrophic string `toml:"catastrophic"`
}

// ToCriteria converts the policy document into the immutable domain
// criteria, validating it in full. All failures wrap types.ErrConfig.
func (p *PolicyConfig) ToCriteria() (*criteria.RiskCriteria, error) {
	crit := &criteria.RiskCriteria{
		RiskAppetite:        p.RiskAppetite,
		InsurableCauses:     p.InsurableCauses,
		ConsequenceDefaults: make(map[types.SourceKind]types.Consequence, len(p.Defaults)),
		ForecastWindow:      p.ForecastWindow,
	}
	if crit.ForecastWindow == 0 {
		crit.ForecastWindow = criteria.DefaultForecastWindow
	}

	for _, band := range p.Tolerance {
		level, err := types.ParseRiskLevel(band.Level)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid tolerance band level",
				goerr.V("level", band.Level))
		}
		crit.ToleranceBands = append(crit.ToleranceBands, criteria.ToleranceBand{
			UpperBound: band.UpperBound,
			Level:      level,
		})
	}

	for _, band := range p.Likelihood {
		l, err := types.ParseLikelihood(band.Band)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid likelihood band name",
				goerr.V("band", band.Band))
		}
		crit.LikelihoodScale = append(crit.LikelihoodScale, criteria.LikelihoodBand{
			Band:       l,
			UpperBound: band.UpperBound,
		})
	}

	for _, band := range p.Consequence {
		c, err := types.ParseConsequence(band.Band)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid consequence band name",
				goerr.V("band", band.Band))
		}
		crit.ConsequenceScale = append(crit.ConsequenceScale, criteria.ConsequenceBand{
			Band:       c,
			UpperBound: band.UpperBound,
		})
	}

	for kind, cons := range p.Defaults {
		k, err := types.ParseSourceKind(kind)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid source kind in defaults",
				goerr.V(types.SourceKindKey, kind))
		}
		c, err := types.ParseConsequence(cons)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid consequence in defaults",
				goerr.V(types.SourceKindKey, kind), goerr.V("consequence", cons))
		}
		crit.ConsequenceDefaults[k] = c
	}

	matrix, err := buildMatrix(p.Matrix)
	if err != nil {
		return nil, err
	}
	crit.Matrix = matrix

	if err := crit.Validate(); err != nil {
		return nil, err
	}
	return crit, nil
}

func buildMatrix(rows []MatrixRow) (*criteria.RiskMatrix, error) {
	cells := make(map[types.Likelihood]map[types.Consequence]types.RiskLevel, len(rows))
	for _, row := range rows {
		l, err := types.ParseLikelihood(row.Likelihood)
		if err != nil {
			return nil, goerr.Wrap(types.ErrConfig, "invalid likelihood in matrix row",
				goerr.V("likelihood", row.Likelihood))
		}
		if _, exists := cells[l]; exists {
			return nil, goerr.Wrap(types.ErrConfig, "duplicate matrix row",
				goerr.V("likelihood", row.Likelihood))
		}

		rowCells := map[types.Consequence]string{
			types.ConsequenceNegligible:   row.Negligible,
			types.ConsequenceMinor:        row.Minor,
			types.ConsequenceModerate:     row.Moderate,
			types.ConsequenceMajor:        row.Major,
			types.ConsequenceCatastrophic: row.Catastrophic,
		}
		parsed := make(map[types.Consequence]types.RiskLevel, len(rowCells))
		for cons, raw := range rowCells {
			level, err := types.ParseRiskLevel(raw)
			if err != nil {
				return nil, goerr.Wrap(types.ErrConfig, "invalid level in matrix cell",
					goerr.V("likelihood", row.Likelihood), goerr.V("consequence", cons), goerr.V("level", raw))
			}
			parsed[cons] = level
		}
		cells[l] = parsed
	}

	return criteria.NewRiskMatrix(cells)
}

// LoadPolicy loads the risk policy from a TOML file. An empty path yields
// the built-in default policy, fixed once at startup.
func LoadPolicy(path string) (*criteria.RiskCriteria, error) {
	if path == "" {
		return criteria.Default(), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", path))
	}

	var policy PolicyConfig
	if err := toml.Unmarshal(data, &policy); err != nil {
		return nil, goerr.Wrap(types.ErrConfig, "failed to parse TOML policy",
			goerr.V("path", path), goerr.V("parse_error", err.Error()))
	}

	crit, err := policy.ToCriteria()
	if err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V("path", path))
	}
	return crit, nil
}
