// Package email sends the acknowledgement mail a visitor receives after
// submitting the form.
package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ideamans/leadgate/pkg/landing/config"
)

// Sender is an interface for sending emails
type Sender interface {
	Send(to, subject, body string) error
	SendHTML(to, subject, htmlBody, textBody string) error
}

// NewSender builds the sender named by cfg.SenderType
func NewSender(cfg config.EmailConfig) (Sender, error) {
	from, fromName := cfg.GetFromAddress()
	switch cfg.SenderType {
	case "smtp":
		return NewSMTPSender(cfg.SMTP, from, fromName), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid, from, fromName), nil
	case "resend":
		return NewResendSender(cfg.Resend, from, fromName)
	case "file":
		return NewFileSender(cfg.File.Dir, from, fromName)
	case "mock":
		return &MockSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported email sender type: %q", cfg.SenderType)
	}
}

// SMTPSender sends emails via SMTP
type SMTPSender struct {
	config   config.SMTPConfig
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPSender creates a new SMTP email sender
func NewSMTPSender(cfg config.SMTPConfig, from, fromName string) *SMTPSender {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	dialer := gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.TLS

	return &SMTPSender{
		config:   cfg,
		dialer:   dialer,
		from:     from,
		fromName: fromName,
	}
}

// Send sends a plain text email via SMTP
func (s *SMTPSender) Send(to, subject, body string) error {
	m := s.message(to, subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// SendHTML sends an HTML email with plain text fallback via SMTP
func (s *SMTPSender) SendHTML(to, subject, htmlBody, textBody string) error {
	m := s.message(to, subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send HTML email via SMTP: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}
