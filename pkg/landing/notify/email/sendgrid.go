package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ideamans/leadgate/pkg/landing/config"
)

// SendGridSender sends emails via SendGrid API
type SendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridSender creates a new SendGrid email sender
func NewSendGridSender(cfg config.SendGridConfig, from, fromName string) *SendGridSender {
	client := sendgrid.NewSendClient(cfg.APIKey)

	// Set custom endpoint URL if configured
	if cfg.EndpointURL != "" {
		client.BaseURL = cfg.EndpointURL
	}

	return &SendGridSender{
		client:   client,
		from:     from,
		fromName: fromName,
	}
}

// Send sends an email via SendGrid API
func (s *SendGridSender) Send(to, subject, body string) error {
	return s.send(to, subject, body, body)
}

// SendHTML sends an HTML email with plain text fallback via SendGrid API
func (s *SendGridSender) SendHTML(to, subject, htmlBody, textBody string) error {
	return s.send(to, subject, textBody, htmlBody)
}

func (s *SendGridSender) send(to, subject, textBody, htmlBody string) error {
	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.from), subject, mail.NewEmail("", to), textBody, htmlBody)

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d %s", response.StatusCode, response.Body)
	}

	return nil
}
