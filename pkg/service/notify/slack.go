package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/risklens-dev/risklens/pkg/domain/model"
	"github.com/risklens-dev/risklens/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Service notifies downstream channels about completed assessments
type Service interface {
	// NotifyRegister sends a summary of the assessment outcome.
	// Called only when the register contains risks worth alerting on.
	NotifyRegister(ctx context.Context, reg *model.RiskRegister) error
}

// SlackWebhook posts assessment summaries to a Slack incoming webhook
type SlackWebhook struct {
	webhookURL string
	channel    string
}

var _ Service = &SlackWebhook{}

// Option configures a SlackWebhook
type Option func(*SlackWebhook)

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(s *SlackWebhook) {
		s.channel = channel
	}
}

// NewSlackWebhook creates a Slack webhook notifier
func NewSlackWebhook(webhookURL string, opts ...Option) (*SlackWebhook, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook URL is required")
	}
	s := &SlackWebhook{webhookURL: webhookURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func levelColor(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelExtreme:
		return "#d00000"
	case types.RiskLevelHigh:
		return "#e85d04"
	case types.RiskLevelMedium:
		return "#ffba08"
	default:
		return "#6a994e"
	}
}

// NotifyRegister posts the run summary with one attachment per extreme risk.
func (s *SlackWebhook) NotifyRegister(ctx context.Context, reg *model.RiskRegister) error {
	extremes := reg.RisksAtOrAbove(types.RiskLevelExtreme)

	msg := &slack.WebhookMessage{
		Channel: s.channel,
		Text: fmt.Sprintf("Risk assessment %s completed: %d risk(s), %d extreme, %d high (mean score %.2f)",
			reg.ID,
			len(reg.Risks),
			reg.Stats.CountByLevel[types.RiskLevelExtreme],
			reg.Stats.CountByLevel[types.RiskLevelHigh],
			reg.Stats.MeanScore,
		),
	}

	for _, er := range extremes {
		attachment := slack.Attachment{
			Color: levelColor(er.Level),
			Title: fmt.Sprintf("#%d %s on %s", er.PriorityRank, er.Event.Cause, er.Event.AssetRef),
			Fields: []slack.AttachmentField{
				{Title: "Level", Value: er.Level.String(), Short: true},
				{Title: "Score", Value: fmt.Sprintf("%.2f", er.NumericScore), Short: true},
				{Title: "Treatment", Value: er.Treatment.String(), Short: true},
				{Title: "Source", Value: er.Event.SourceKind.String(), Short: true},
			},
		}
		if er.Event.CVE != "" {
			attachment.Fields = append(attachment.Fields,
				slack.AttachmentField{Title: "CVE", Value: er.Event.CVE, Short: true})
		}
		if er.Systemic {
			attachment.Footer = "systemic: cause recurs across multiple assets"
		}
		msg.Attachments = append(msg.Attachments, attachment)
	}

	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post assessment summary to Slack")
	}
	return nil
}
