package types

import "github.com/m-mizutani/goerr/v2"

// Assessment error taxonomy. ErrConfig and ErrPolicyViolation are fatal for
// the whole run; ErrMalformedFinding is recovered per record; and
// ErrInsufficientHistory only suppresses the forecast.
var (
	ErrConfig              = goerr.New("invalid risk policy configuration")
	ErrMalformedFinding    = goerr.New("malformed finding record")
	ErrPolicyViolation     = goerr.New("risk criteria are internally inconsistent")
	ErrInsufficientHistory = goerr.New("insufficient snapshot history for forecasting")
)

// Context keys for error values
const (
	AssetRefKey    = "asset_ref"
	SourceKindKey  = "source_kind"
	RawSeverityKey = "raw_severity"
	CauseKey       = "cause"
	SnapshotsKey   = "snapshot_count"
)
