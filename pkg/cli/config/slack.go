package config

import (
	"log/slog"

	"github.com/risklens-dev/risklens/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack webhook notification
type Slack struct {
	webhookURL string
	channel    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack Incoming Webhook URL for severe risk notifications",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("RISKLENS_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel to post notifications to",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("RISKLENS_SLACK_CHANNEL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(x.webhookURL)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured checks if Slack webhook notification is enabled
func (x *Slack) IsConfigured() bool {
	return x.webhookURL != ""
}

// Configure creates a notification service, or nil when no webhook is set
func (x *Slack) Configure() (notify.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	return notify.NewSlackWebhook(x.webhookURL, notify.WithChannel(x.channel))
}
