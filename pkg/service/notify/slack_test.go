package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/risklens-dev/risklens/pkg/service/notify"
)

func TestNewSlackWebhook(t *testing.T) {
	t.Run("empty URL is rejected", func(t *testing.T) {
		_, err := notify.NewSlackWebhook("")
		gt.Error(t, err)
	})
}

func TestNotifyRegister(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		gt.NoError(t, err)
		received = body
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	svc, err := notify.NewSlackWebhook(srv.URL, notify.WithChannel("#risk-alerts"))
	gt.NoError(t, err)

	reg := &model.RiskRegister{
		ID: "reg-1",
		Risks: []model.EvaluatedRisk{
			{
				Event:        model.RiskEvent{ID: "ev-1", AssetRef: "web-01", Cause: "remote-code-execution", SourceKind: types.SourceKindVulnerability, CVE: "CVE-2025-0001"},
				Level:        types.RiskLevelExtreme,
				NumericScore: 10.0,
				PriorityRank: 1,
				Treatment:    types.TreatmentAvoid,
				Systemic:     true,
			},
			{
				Event:        model.RiskEvent{ID: "ev-2", AssetRef: "db-01", Cause: "weak-tls-config"},
				Level:        types.RiskLevelMedium,
				NumericScore: 2.5,
				PriorityRank: 2,
				Treatment:    types.TreatmentAccept,
			},
		},
		Stats: model.RegisterStats{
			MeanScore: 6.25,
			CountByLevel: map[types.RiskLevel]int{
				types.RiskLevelExtreme: 1,
				types.RiskLevelMedium:  1,
			},
		},
	}

	gt.NoError(t, svc.NotifyRegister(context.Background(), reg))

	var msg struct {
		Channel     string `json:"channel"`
		Text        string `json:"text"`
		Attachments []struct {
			Title  string `json:"title"`
			Footer string `json:"footer"`
		} `json:"attachments"`
	}
	gt.NoError(t, json.Unmarshal(received, &msg))

	gt.Value(t, msg.Channel).Equal("#risk-alerts")
	gt.Bool(t, strings.Contains(msg.Text, "1 extreme")).True()

	// Only the extreme risk gets an attachment.
	gt.Array(t, msg.Attachments).Length(1)
	gt.Bool(t, strings.Contains(msg.Attachments[0].Title, "remote-code-execution")).True()
	gt.Bool(t, strings.Contains(msg.Attachments[0].Footer, "systemic")).True()
}
