package email

import (
	"fmt"
	"time"

	hermes "github.com/ideamans/hermes"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

// AckTemplate renders the acknowledgement email with Hermes
type AckTemplate struct {
	serviceName string
	logoURL     string
	logoWidth   string
	iconURL     string
	baseURL     string
}

// NewAckTemplate creates a new acknowledgement template
func NewAckTemplate(serviceName, logoURL, logoWidth, iconURL, baseURL string) *AckTemplate {
	return &AckTemplate{
		serviceName: serviceName,
		logoURL:     logoURL,
		logoWidth:   logoWidth,
		iconURL:     iconURL,
		baseURL:     baseURL,
	}
}

// Generate returns the subject, HTML and plain text bodies for l
func (t *AckTemplate) Generate(l lead.Lead, lang i18n.Language, translator *i18n.Translator) (subject, htmlBody, textBody string, err error) {
	tr := func(key string, args ...interface{}) string {
		text := translator.T(lang, key)
		if len(args) > 0 {
			return fmt.Sprintf(text, args...)
		}
		return text
	}

	h := hermes.Hermes{
		Product: hermes.Product{
			Name:          t.serviceName,
			Link:          t.baseURL,
			Logo:          t.logoURL,
			LogoWidth:     t.logoWidth,
			Icon:          t.iconURL,
			Copyright:     fmt.Sprintf("© %d %s", time.Now().Year(), t.serviceName),
			HideSignature: true,
		},
	}

	var details []hermes.Entry
	add := func(labelKey, value string) {
		if value != "" {
			details = append(details, hermes.Entry{Key: tr(labelKey), Value: value})
		}
	}
	add("form.name", l.Name)
	add("form.email", l.Email)
	add("form.mobile", lead.MaskMobile(l.Mobile))
	add("form.course", l.Course)
	add("form.city", l.City)
	add("form.background", l.Background)
	add("form.mode", l.Mode)

	body := hermes.Body{
		Name: l.Name,
		Intros: []string{
			tr("email.ack.intro", t.serviceName),
			tr("email.ack.details"),
		},
		Dictionary: details,
		Outros: []string{
			tr("email.ack.outro"),
		},
	}
	if t.baseURL != "" {
		body.Actions = []hermes.Action{
			{
				Instructions: tr("email.ack.instructions"),
				Button: hermes.Button{
					Color: "#1E9BF0",
					Text:  tr("email.ack.button"),
					Link:  t.baseURL,
				},
			},
		}
	}

	email := hermes.Email{Body: body}

	htmlBody, err = h.GenerateHTML(email)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate HTML email: %w", err)
	}

	textBody, err = h.GeneratePlainText(email)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate plain text email: %w", err)
	}

	return tr("email.ack.subject", t.serviceName), htmlBody, textBody, nil
}
