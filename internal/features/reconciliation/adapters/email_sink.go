package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"shipment-reconciler/internal/core/config"
	"shipment-reconciler/internal/features/reconciliation/domain"
	"shipment-reconciler/internal/features/reconciliation/report"

	"github.com/jhillyerd/enmime"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errNoRecipients = errors.New("no recipients configured")

var alertTemplate = template.Must(template.New("alert").Parse(`<html><body>
<p>Customer Name: {{.CustomerName}}</p>
<p>Order Number: {{.OrderNumber}}</p>
<p>Ship Date: {{.ShippedDate}}</p>
<p>Customer Email: {{.CustomerEmail}}</p>
<p>Tracking Number: {{.TrackingNumber}} ({{.CarrierName}})</p>
<p>Status: {{.StatusEntry}}</p>
</body></html>
`))

// NewSMTPSender returns an enmime sender for the configured relay.
func NewSMTPSender(cfg config.SMTPConfig) enmime.Sender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return enmime.NewSMTP(cfg.Addr(), auth)
}

// EmailSink mails the HTML summary, with an XLSX attachment, and per-order alerts.
type EmailSink struct {
	sender     enmime.Sender
	from       string
	recipients []string
}

// NewEmailSink creates an EmailSink.
func NewEmailSink(sender enmime.Sender, from string, recipients []string) *EmailSink {
	return &EmailSink{
		sender:     sender,
		from:       from,
		recipients: recipients,
	}
}

// Name identifies the sink in logs.
func (s *EmailSink) Name() string {
	return "email"
}

// SendSummary mails the pass summary.
func (s *EmailSink) SendSummary(ctx context.Context, summary *report.Summary) error {
	html, err := report.HTML(summary)
	if err != nil {
		return err
	}
	workbook, err := report.XLSX(summary)
	if err != nil {
		return err
	}

	b, err := s.builder(summary.Subject)
	if err != nil {
		return err
	}
	b = b.HTML([]byte(html)).
		Text([]byte(report.Text(summary))).
		AddAttachment(workbook, xlsxContentType,
			fmt.Sprintf("tracking-report-%s.xlsx", summary.GeneratedAt.Format("2006-01-02-1504")))

	return s.send(ctx, b)
}

// SendAlert mails one per-order alert.
func (s *EmailSink) SendAlert(ctx context.Context, alert domain.Alert) error {
	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, alert); err != nil {
		return fmt.Errorf("failed to render alert: %w", err)
	}

	b, err := s.builder(alert.Subject)
	if err != nil {
		return err
	}
	return s.send(ctx, b.HTML(buf.Bytes()))
}

func (s *EmailSink) builder(subject string) (enmime.MailBuilder, error) {
	if len(s.recipients) == 0 {
		return enmime.MailBuilder{}, errNoRecipients
	}
	b := enmime.Builder().From("", s.from).Subject(subject)
	for _, r := range s.recipients {
		b = b.To("", r)
	}
	return b, nil
}

func (s *EmailSink) send(ctx context.Context, b enmime.MailBuilder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.Send(s.sender); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
