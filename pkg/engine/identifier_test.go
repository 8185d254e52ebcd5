package engine_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/engine"
)

func TestIdentify(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicates merge keeping max severity", func(t *testing.T) {
		findings := []model.RawFinding{
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 4.0, Cause: "unpatched-openssl"},
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 8.5, Cause: "unpatched-openssl", CVE: "CVE-2025-1234"},
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 6.0, Cause: "unpatched-openssl"},
		}

		events, dropped := engine.Identify(ctx, findings)
		gt.Number(t, dropped).Equal(0)
		gt.Array(t, events).Length(1)
		gt.Number(t, events[0].RawSeverity).Equal(8.5)
		gt.Value(t, events[0].CVE).Equal("CVE-2025-1234")
	})

	t.Run("distinct identities stay separate", func(t *testing.T) {
		findings := []model.RawFinding{
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 5.0, Cause: "unpatched-openssl"},
			{AssetRef: "web-02", SourceKind: "VULNERABILITY", RawSeverity: 5.0, Cause: "unpatched-openssl"},
			{AssetRef: "web-01", SourceKind: "ANOMALY", RawSeverity: 5.0, Cause: "unpatched-openssl"},
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 5.0, Cause: "weak-tls-config"},
		}

		events, dropped := engine.Identify(ctx, findings)
		gt.Number(t, dropped).Equal(0)
		gt.Array(t, events).Length(4)
	})

	t.Run("malformed records are dropped and counted", func(t *testing.T) {
		findings := []model.RawFinding{
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 5.0, Cause: "unpatched-openssl"},
			{AssetRef: "", SourceKind: "VULNERABILITY", RawSeverity: 5.0, Cause: "missing-asset"},
			{AssetRef: "web-02", SourceKind: "SIEM", RawSeverity: 5.0, Cause: "unknown-kind"},
			{AssetRef: "web-03", SourceKind: "ANOMALY", RawSeverity: 11.0, Cause: "severity-overflow"},
		}

		events, dropped := engine.Identify(ctx, findings)
		gt.Number(t, dropped).Equal(3)
		gt.Array(t, events).Length(1)
	})

	t.Run("output order is deterministic", func(t *testing.T) {
		findings := []model.RawFinding{
			{AssetRef: "db-01", SourceKind: "ANOMALY", RawSeverity: 3.0, Cause: "odd-login-pattern"},
			{AssetRef: "web-01", SourceKind: "VULNERABILITY", RawSeverity: 7.0, Cause: "unpatched-openssl"},
			{AssetRef: "ml-01", SourceKind: "ML_THREAT", RawSeverity: 5.0, Cause: "model-poisoning"},
		}

		first, _ := engine.Identify(ctx, findings)

		reversed := []model.RawFinding{findings[2], findings[1], findings[0]}
		second, _ := engine.Identify(ctx, reversed)

		gt.Array(t, first).Length(3)
		for i := range first {
			gt.Value(t, first[i]).Equal(second[i])
		}
		for i := 1; i < len(first); i++ {
			gt.Bool(t, first[i-1].ID < first[i].ID).True()
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		events, dropped := engine.Identify(ctx, nil)
		gt.Array(t, events).Length(0)
		gt.Number(t, dropped).Equal(0)
	})
}
