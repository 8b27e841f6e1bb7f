// Package telegram posts a sales alert for every submitted lead.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Notifier sends lead alerts to one chat.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	service string
	logger  logging.Logger
}

// New connects to the Bot API. It fails when the token is rejected.
// A nil client uses one with a 10s timeout.
func New(cfg config.TelegramConfig, service string, client *http.Client, logger logging.Logger) (*Notifier, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to connect: %w", err)
	}

	logger = logger.WithModule("telegram")
	logger.Debug("Connected to Telegram", "bot", bot.Self.UserName, "chat", cfg.ChatID)

	return &Notifier{bot: bot, chatID: cfg.ChatID, service: service, logger: logger}, nil
}

// Notify posts the alert for l.
func (n *Notifier) Notify(ctx context.Context, l lead.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatAlert(n.service, l))
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: sendMessage failed: %w", err)
	}
	n.logger.Info("Lead alert sent", "mobile", lead.MaskMobile(l.Mobile))
	return nil
}

// FormatAlert renders the plain text alert.
func FormatAlert(service string, l lead.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New lead from %s\n", service)
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Name", l.Name)
	line("Email", l.Email)
	line("Mobile", l.Mobile)
	line("Course", l.Course)
	line("City", l.City)
	line("Background", l.Background)
	line("Mode", l.Mode)
	return strings.TrimSuffix(b.String(), "\n")
}
