package email

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/ideamans/leadgate/pkg/landing/config"
)

// ResendSender sends emails via the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a new Resend email sender
func NewResendSender(cfg config.ResendConfig, from, fromName string) (*ResendSender, error) {
	client := resend.NewClient(cfg.APIKey)

	if cfg.EndpointURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.EndpointURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend endpoint_url: %w", err)
		}
		client.BaseURL = base
	}

	address := from
	if fromName != "" {
		address = fmt.Sprintf("%s <%s>", fromName, from)
	}

	return &ResendSender{client: client, from: address}, nil
}

// Send sends a plain text email via Resend
func (s *ResendSender) Send(to, subject, body string) error {
	return s.send(&resend.SendEmailRequest{From: s.from, To: []string{to}, Subject: subject, Text: body})
}

// SendHTML sends an HTML email with plain text fallback via Resend
func (s *ResendSender) SendHTML(to, subject, htmlBody, textBody string) error {
	return s.send(&resend.SendEmailRequest{From: s.from, To: []string{to}, Subject: subject, Html: htmlBody, Text: textBody})
}

func (s *ResendSender) send(params *resend.SendEmailRequest) error {
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return nil
}
