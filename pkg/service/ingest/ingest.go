package ingest

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/utils/safe"
)

// Document is the wire format produced by the scanning and ML collaborators:
// a flat list of findings, optionally wrapped with scan metadata.
type Document struct {
	ScanID   string             `json:"scan_id,omitempty"`
	Findings []model.RawFinding `json:"findings"`
}

// Read decodes a findings document from the reader. Structural validation of
// individual findings is deferred to the identifier, which drops bad records
// instead of failing the batch; Read only rejects documents that are not
// valid JSON at all.
func Read(r io.Reader) ([]model.RawFinding, error) {
	dec := json.NewDecoder(r)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode findings document")
	}
	return doc.Findings, nil
}

// ReadFile loads a findings document from a file path.
func ReadFile(ctx context.Context, path string) ([]model.RawFinding, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open findings file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	findings, err := Read(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read findings file", goerr.V("path", path))
	}
	return findings, nil
}
