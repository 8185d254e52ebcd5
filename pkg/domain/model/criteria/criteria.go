package criteria

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// ScoreDomainMax is the upper bound of the numeric severity/score domain.
// All scale and tolerance bands must span [0, ScoreDomainMax] exactly.
const ScoreDomainMax = 10.0

// ToleranceBand maps a numeric score range to a qualitative level label.
// The band covers scores up to UpperBound (exclusive, except the topmost band).
type ToleranceBand struct {
	UpperBound float64
	Level      types.RiskLevel
}

// LikelihoodBand defines the numeric bucket for one likelihood band.
// The bucket is inclusive on its lower edge and exclusive on UpperBound,
// except the topmost band which is closed on both ends.
type LikelihoodBand struct {
	Band       types.Likelihood
	UpperBound float64
}

// ConsequenceBand defines the numeric bucket for one consequence band,
// with the same edge semantics as LikelihoodBand.
type ConsequenceBand struct {
	Band       types.Consequence
	UpperBound float64
}

// RiskCriteria holds the organization's risk policy for one assessment run.
// It is read-only after Load: every risk in a single run is judged against
// the same policy.
type RiskCriteria struct {
	RiskAppetite     float64
	ToleranceBands   []ToleranceBand
	LikelihoodScale  []LikelihoodBand
	ConsequenceScale []ConsequenceBand

	// ConsequenceDefaults maps a source kind to the consequence band assumed
	// when a finding carries no consequence hint. A kind without an entry
	// falls back to numeric derivation over ConsequenceScale.
	ConsequenceDefaults map[types.SourceKind]types.Consequence

	// InsurableCauses lists cause categories the organization can transfer
	// to an external insurer.
	InsurableCauses []string

	Matrix *RiskMatrix

	// ForecastWindow is the trailing snapshot count used for trend
	// extrapolation.
	ForecastWindow int
}

// DefaultForecastWindow is used when the policy does not set one.
const DefaultForecastWindow = 5

// Validate checks that the criteria form a consistent, exhaustive policy.
// All failures wrap types.ErrConfig.
func (c *RiskCriteria) Validate() error {
	if c.RiskAppetite < 0 || c.RiskAppetite > ScoreDomainMax {
		return goerr.Wrap(types.ErrConfig, "risk appetite must be within score domain",
			goerr.V("appetite", c.RiskAppetite))
	}

	if err := validateToleranceBands(c.ToleranceBands); err != nil {
		return err
	}

	if len(c.LikelihoodScale) != len(types.AllLikelihoods()) {
		return goerr.Wrap(types.ErrConfig, "likelihood scale must define exactly one bucket per band",
			goerr.V("count", len(c.LikelihoodScale)))
	}
	for i, want := range types.AllLikelihoods() {
		if c.LikelihoodScale[i].Band != want {
			return goerr.Wrap(types.ErrConfig, "likelihood scale bands must be in ascending order",
				goerr.V("index", i), goerr.V("band", c.LikelihoodScale[i].Band), goerr.V("expected", want))
		}
	}
	bounds := make([]float64, len(c.LikelihoodScale))
	for i, b := range c.LikelihoodScale {
		bounds[i] = b.UpperBound
	}
	if err := validateBounds("likelihood scale", bounds); err != nil {
		return err
	}

	if len(c.ConsequenceScale) != len(types.AllConsequences()) {
		return goerr.Wrap(types.ErrConfig, "consequence scale must define exactly one bucket per band",
			goerr.V("count", len(c.ConsequenceScale)))
	}
	for i, want := range types.AllConsequences() {
		if c.ConsequenceScale[i].Band != want {
			return goerr.Wrap(types.ErrConfig, "consequence scale bands must be in ascending order",
				goerr.V("index", i), goerr.V("band", c.ConsequenceScale[i].Band), goerr.V("expected", want))
		}
	}
	bounds = bounds[:0]
	for _, b := range c.ConsequenceScale {
		bounds = append(bounds, b.UpperBound)
	}
	if err := validateBounds("consequence scale", bounds); err != nil {
		return err
	}

	for kind, cons := range c.ConsequenceDefaults {
		if !kind.IsValid() {
			return goerr.Wrap(types.ErrConfig, "consequence default for unknown source kind",
				goerr.V(types.SourceKindKey, kind))
		}
		if !cons.IsValid() {
			return goerr.Wrap(types.ErrConfig, "invalid default consequence band",
				goerr.V(types.SourceKindKey, kind), goerr.V("consequence", cons))
		}
	}

	if c.Matrix == nil {
		return goerr.Wrap(types.ErrConfig, "risk matrix is required")
	}
	if err := c.Matrix.Validate(); err != nil {
		return err
	}

	if c.ForecastWindow < 2 {
		return goerr.Wrap(types.ErrConfig, "forecast window must be at least 2 snapshots",
			goerr.V("window", c.ForecastWindow))
	}

	return nil
}

func validateToleranceBands(bands []ToleranceBand) error {
	if len(bands) == 0 {
		return goerr.Wrap(types.ErrConfig, "at least one tolerance band is required")
	}
	bounds := make([]float64, len(bands))
	for i, b := range bands {
		if !b.Level.IsValid() {
			return goerr.Wrap(types.ErrConfig, "tolerance band has invalid level",
				goerr.V("index", i), goerr.V("level", b.Level))
		}
		bounds[i] = b.UpperBound
	}
	return validateBounds("tolerance bands", bounds)
}

// validateBounds checks that upper bounds are strictly ascending and that the
// final bound closes the score domain, leaving no gap or overlap.
func validateBounds(name string, bounds []float64) error {
	prev := 0.0
	for i, ub := range bounds {
		if ub <= prev {
			return goerr.Wrap(types.ErrConfig, "band bounds must be strictly ascending",
				goerr.V("scale", name), goerr.V("index", i), goerr.V("bound", ub))
		}
		prev = ub
	}
	if bounds[len(bounds)-1] != ScoreDomainMax {
		return goerr.Wrap(types.ErrConfig, "bands must span the full score domain",
			goerr.V("scale", name), goerr.V("last_bound", bounds[len(bounds)-1]))
	}
	return nil
}

// LikelihoodFor maps a raw severity onto the likelihood scale. Buckets are
// half-open on the upper edge; the topmost band absorbs the domain maximum.
func (c *RiskCriteria) LikelihoodFor(rawSeverity float64) types.Likelihood {
	for i, b := range c.LikelihoodScale {
		if rawSeverity < b.UpperBound || i == len(c.LikelihoodScale)-1 {
			return b.Band
		}
	}
	return c.LikelihoodScale[len(c.LikelihoodScale)-1].Band
}

// ConsequenceForScore maps a raw severity onto the consequence scale, used
// when a finding has neither a hint nor a configured source-kind default.
func (c *RiskCriteria) ConsequenceForScore(rawSeverity float64) types.Consequence {
	for i, b := range c.ConsequenceScale {
		if rawSeverity < b.UpperBound || i == len(c.ConsequenceScale)-1 {
			return b.Band
		}
	}
	return c.ConsequenceScale[len(c.ConsequenceScale)-1].Band
}

// ToleranceLevel maps a numeric score onto the tolerance bands, yielding the
// qualitative label the policy attaches to that score range.
func (c *RiskCriteria) ToleranceLevel(score float64) types.RiskLevel {
	for i, b := range c.ToleranceBands {
		if score < b.UpperBound || i == len(c.ToleranceBands)-1 {
			return b.Level
		}
	}
	return c.ToleranceBands[len(c.ToleranceBands)-1].Level
}

// IsInsurable reports whether the cause category is externally insurable
// under this policy.
func (c *RiskCriteria) IsInsurable(cause string) bool {
	for _, ic := range c.InsurableCauses {
		if ic == cause {
			return true
		}
	}
	return false
}

// Default returns the built-in policy used when no policy file is supplied.
// It mirrors the ISO 31000 aligned defaults: appetite 5.0, even 2-point
// buckets on both scales, and the standard 5x5 matrix.
func Default() *RiskCriteria {
	return &RiskCriteria{
		RiskAppetite: 5.0,
		ToleranceBands: []ToleranceBand{
			{UpperBound: 2.5, Level: types.RiskLevelLow},
			{UpperBound: 5.0, Level: types.RiskLevelMedium},
			{UpperBound: 7.5, Level: types.RiskLevelHigh},
			{UpperBound: ScoreDomainMax, Level: types.RiskLevelExtreme},
		},
		LikelihoodScale: []LikelihoodBand{
			{Band: types.LikelihoodVeryLow, UpperBound: 2.0},
			{Band: types.LikelihoodLow, UpperBound: 4.0},
			{Band: types.LikelihoodMedium, UpperBound: 6.0},
			{Band: types.LikelihoodHigh, UpperBound: 8.0},
			{Band: types.LikelihoodVeryHigh, UpperBound: ScoreDomainMax},
		},
		ConsequenceScale: []ConsequenceBand{
			{Band: types.ConsequenceNegligible, UpperBound: 2.0},
			{Band: types.ConsequenceMinor, UpperBound: 4.0},
			{Band: types.ConsequenceModerate, UpperBound: 6.0},
			{Band: types.ConsequenceMajor, UpperBound: 8.0},
			{Band: types.ConsequenceCatastrophic, UpperBound: ScoreDomainMax},
		},
		ConsequenceDefaults: map[types.SourceKind]types.Consequence{
			types.SourceKindVulnerability: types.ConsequenceModerate,
			types.SourceKindMLThreat:      types.ConsequenceMajor,
			types.SourceKindAnomaly:       types.ConsequenceModerate,
		},
		InsurableCauses: []string{
			"data-exposure",
			"third-party-dependency",
		},
		Matrix:         DefaultMatrix(),
		ForecastWindow: DefaultForecastWindow,
	}
}
