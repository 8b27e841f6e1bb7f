package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator()

	assert.Equal(t, "Please enter your name.", tr.T(English, "form.name_required"))
	assert.Equal(t, "कृपया अपना नाम दर्ज करें।", tr.T(Hindi, "form.name_required"))
	// missing in Hindi falls back to English
	assert.Equal(t, "HTTP %d", tr.T(Hindi, "remote.http_status"))
	assert.Equal(t, "no.such.key", tr.T(English, "no.such.key"))
}

func TestTranslator_Tf(t *testing.T) {
	tr := NewTranslator()

	assert.Equal(t, "OTP Send Failed: HTTP 502", tr.Tf(English, "otp.send_failed", tr.Tf(English, "remote.http_status", 502)))
	assert.Equal(t, "Thank you! Redirecting...", tr.Tf(English, "submit.redirecting", "Thank you!"))
	assert.Equal(t, "Error: bad otp", tr.Tf(English, "remote.rejected", "bad otp"))
}

func TestNewTranslatorWith(t *testing.T) {
	tr := NewTranslatorWith(Translations{
		English: {"page.headline": "Learn data science"},
	})

	assert.Equal(t, "Learn data science", tr.T(English, "page.headline"))
	assert.Equal(t, "Sending OTP...", tr.T(English, "otp.sending"))
	assert.Equal(t, "Become a job-ready Data Scientist", NewTranslator().T(English, "page.headline"), "overrides must not leak into the defaults")
}

func TestCataloguesHaveMatchingKeys(t *testing.T) {
	for key := range defaultTranslations[Hindi] {
		_, ok := defaultTranslations[English][key]
		assert.True(t, ok, "hindi key %q has no english source", key)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cookie string
		accept string
		want   Language
	}{
		{"default", "/", "", "", English},
		{"query", "/?lang=hi", "", "", Hindi},
		{"query wins over cookie", "/?lang=en", "hi", "", English},
		{"cookie", "/", "hi", "", Hindi},
		{"accept-language with region", "/", "", "hi-IN,en;q=0.8", Hindi},
		{"unsupported", "/", "", "fr-FR", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.cookie != "" {
				r.Header.Set("Cookie", "lang="+tt.cookie)
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, DetectLanguage(r))
		})
	}
}
