package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/service/ingest"
)

func TestRead(t *testing.T) {
	t.Run("wrapped findings document", func(t *testing.T) {
		doc := `{
			"scan_id": "scan-20250601",
			"findings": [
				{"asset_ref": "web-01", "source_kind": "VULNERABILITY", "raw_severity": 8.5, "cause": "unpatched-openssl", "cve": "CVE-2025-1234"},
				{"asset_ref": "db-01", "source_kind": "ANOMALY", "raw_severity": 3.0, "cause": "odd-login-pattern", "consequence_hint": "MINOR"}
			]
		}`

		findings, err := ingest.Read(strings.NewReader(doc))
		gt.NoError(t, err)
		gt.Array(t, findings).Length(2)
		gt.Value(t, findings[0].AssetRef).Equal("web-01")
		gt.Value(t, findings[0].CVE).Equal("CVE-2025-1234")
		gt.Value(t, findings[1].ConsequenceHint).Equal("MINOR")
	})

	t.Run("structural validation is deferred", func(t *testing.T) {
		// A decodable document with a bad record still reads; the identifier
		// is responsible for dropping it.
		doc := `{"findings": [{"asset_ref": "", "source_kind": "NETFLOW", "raw_severity": 99, "cause": ""}]}`

		findings, err := ingest.Read(strings.NewReader(doc))
		gt.NoError(t, err)
		gt.Array(t, findings).Length(1)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		_, err := ingest.Read(strings.NewReader("{findings: oops"))
		gt.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	t.Run("reads findings from a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "findings.json")
		content := `{"findings": [{"asset_ref": "web-01", "source_kind": "VULNERABILITY", "raw_severity": 5.0, "cause": "x"}]}`
		gt.NoError(t, os.WriteFile(path, []byte(content), 0644))

		findings, err := ingest.ReadFile(context.Background(), path)
		gt.NoError(t, err)
		gt.Array(t, findings).Length(1)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := ingest.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
		gt.Error(t, err)
	})
}
