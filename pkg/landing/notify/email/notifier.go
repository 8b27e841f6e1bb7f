package email

import (
	"context"
	"fmt"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Notifier mails an acknowledgement to the visitor who submitted a lead.
type Notifier struct {
	sender     Sender
	template   *AckTemplate
	translator *i18n.Translator
	lang       i18n.Language
	logger     logging.Logger
}

// NewNotifier creates an acknowledgement notifier writing in lang.
func NewNotifier(sender Sender, template *AckTemplate, translator *i18n.Translator, lang i18n.Language, logger logging.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		template:   template,
		translator: translator,
		lang:       lang,
		logger:     logger.WithModule("email"),
	}
}

// Notify sends the acknowledgement. Leads without an email are skipped.
func (n *Notifier) Notify(ctx context.Context, l lead.Lead) error {
	if l.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, htmlBody, textBody, err := n.template.Generate(l, n.lang, n.translator)
	if err != nil {
		return err
	}

	if err := n.sender.SendHTML(l.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("acknowledgement to %s: %w", lead.MaskEmail(l.Email), err)
	}
	n.logger.Info("Acknowledgement sent", "email", lead.MaskEmail(l.Email))
	return nil
}
