package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/types"
)

// RawFinding is the upstream input shape produced by the scanning and ML
// collaborators. Fields arrive untrusted; Validate is the single place where
// the loosely shaped input is checked before entering the pipeline.
type RawFinding struct {
	AssetRef        string  `json:"asset_ref"`
	SourceKind      string  `json:"source_kind"`
	RawSeverity     float64 `json:"raw_severity"`
	Cause           string  `json:"cause"`
	ConsequenceHint string  `json:"consequence_hint,omitempty"`
	CVE             string  `json:"cve,omitempty"`
}

// Validate checks the required fields of a raw finding. All failures wrap
// types.ErrMalformedFinding so callers can drop the record and continue.
func (f *RawFinding) Validate() error {
	if f.AssetRef == "" {
		return goerr.Wrap(types.ErrMalformedFinding, "asset reference is required",
			goerr.V(types.CauseKey, f.Cause))
	}
	kind := types.SourceKind(f.SourceKind)
	if !kind.IsValid() {
		return goerr.Wrap(types.ErrMalformedFinding, "unknown source kind",
			goerr.V(types.AssetRefKey, f.AssetRef), goerr.V(types.SourceKindKey, f.SourceKind))
	}
	if f.RawSeverity < 0 || f.RawSeverity > 10 {
		return goerr.Wrap(types.ErrMalformedFinding, "raw severity outside [0,10]",
			goerr.V(types.AssetRefKey, f.AssetRef), goerr.V(types.RawSeverityKey, f.RawSeverity))
	}
	if f.Cause == "" {
		return goerr.Wrap(types.ErrMalformedFinding, "cause is required",
			goerr.V(types.AssetRefKey, f.AssetRef))
	}
	if f.ConsequenceHint != "" {
		if _, err := types.ParseConsequence(f.ConsequenceHint); err != nil {
			return goerr.Wrap(types.ErrMalformedFinding, "consequence hint is not a known band",
				goerr.V(types.AssetRefKey, f.AssetRef), goerr.V("hint", f.ConsequenceHint))
		}
	}
	return nil
}
