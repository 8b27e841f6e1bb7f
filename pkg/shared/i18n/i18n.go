package i18n

import (
	"fmt"
	"net/http"
	"strings"
)

// Language represents a supported language
type Language string

const (
	// English is the English language
	English Language = "en"
	// Hindi is the Hindi language
	Hindi Language = "hi"
)

// DefaultLanguage is the fallback language
const DefaultLanguage = English

// Translation maps message keys to text.
type Translation map[string]string

// Translations holds all language translations
type Translations map[Language]Translation

// Translator provides translation functionality
type Translator struct {
	translations Translations
}

// NewTranslator creates a translator over the built-in catalogue.
func NewTranslator() *Translator {
	return &Translator{translations: defaultTranslations}
}

// NewTranslatorWith creates a translator whose entries override the built-in ones.
func NewTranslatorWith(overrides Translations) *Translator {
	merged := make(Translations, len(defaultTranslations))
	for lang, trans := range defaultTranslations {
		m := make(Translation, len(trans))
		for k, v := range trans {
			m[k] = v
		}
		merged[lang] = m
	}
	for lang, trans := range overrides {
		if merged[lang] == nil {
			merged[lang] = make(Translation, len(trans))
		}
		for k, v := range trans {
			merged[lang][k] = v
		}
	}
	return &Translator{translations: merged}
}

// T translates a key for the given language, falling back to English and then to the key.
func (t *Translator) T(lang Language, key string) string {
	if trans, ok := t.translations[lang]; ok {
		if text, ok := trans[key]; ok {
			return text
		}
	}

	if trans, ok := t.translations[DefaultLanguage]; ok {
		if text, ok := trans[key]; ok {
			return text
		}
	}

	return key
}

// Tf translates a key and formats it with args.
func (t *Translator) Tf(lang Language, key string, args ...interface{}) string {
	return fmt.Sprintf(t.T(lang, key), args...)
}

// Languages lists the languages with a catalogue.
func (t *Translator) Languages() []Language {
	return []Language{English, Hindi}
}

// DetectLanguage picks the language from the "lang" query parameter,
// then the "lang" cookie, then the first Accept-Language entry.
func DetectLanguage(r *http.Request) Language {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return normalizeLanguage(lang)
	}

	if cookie, err := r.Cookie("lang"); err == nil {
		return normalizeLanguage(cookie.Value)
	}

	if acceptLang := r.Header.Get("Accept-Language"); acceptLang != "" {
		first := strings.Split(acceptLang, ",")[0]
		return normalizeLanguage(strings.Split(first, ";")[0])
	}

	return DefaultLanguage
}

func normalizeLanguage(lang string) Language {
	lang = strings.ToLower(strings.TrimSpace(lang))

	// en-IN, hi-IN
	if len(lang) > 2 {
		lang = lang[:2]
	}

	switch lang {
	case "hi":
		return Hindi
	default:
		return English
	}
}
