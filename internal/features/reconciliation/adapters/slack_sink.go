package adapters

import (
	"context"
	"fmt"

	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/report"

	"github.com/slack-go/slack"
)

// SlackSink posts the summary and alerts to one channel.
type SlackSink struct {
	client  *slack.Client
	channel string
}

// NewSlackSink creates a SlackSink. An empty apiURL uses the public Slack API.
func NewSlackSink(token, channel, apiURL string) *SlackSink {
	var opts []slack.Option
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &SlackSink{
		client:  slack.New(token, opts...),
		channel: channel,
	}
}

// Name identifies the sink in logs.
func (s *SlackSink) Name() string {
	return "slack"
}

// SendSummary posts the summary text.
func (s *SlackSink) SendSummary(ctx context.Context, summary *report.Summary) error {
	return s.post(ctx, report.Text(summary))
}

// SendAlert posts a one-line alert.
func (s *SlackSink) SendAlert(ctx context.Context, alert domain.Alert) error {
	text := fmt.Sprintf("*%s*\n%s (%s) %s %s: %s",
		alert.Subject, alert.CustomerName, alert.CustomerEmail, alert.CarrierName, alert.TrackingNumber, alert.StatusEntry)
	return s.post(ctx, text)
}

func (s *SlackSink) post(ctx context.Context, text string) error {
	if _, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to post to slack: %w", err)
	}
	return nil
}
