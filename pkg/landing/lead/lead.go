// Package lead holds the visitor's form data and the checks it must pass
// before an OTP can be requested.
package lead

import (
	"errors"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Lead is what the landing page form collects.
type Lead struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Course     string `json:"course"`
	City       string `json:"city"`
	Background string `json:"background"`
	Mode       string `json:"mode"`
}

// Form field names, shared by the page form and the remote endpoint.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldMobile     = "mobile"
	FieldCourse     = "course"
	FieldCity       = "city"
	FieldBackground = "background"
	FieldMode       = "mode"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// Contact validation errors, reported in this order.
var (
	ErrNameRequired  = errors.New("lead: name is required")
	ErrEmailInvalid  = errors.New("lead: email is invalid")
	ErrMobileInvalid = errors.New("lead: mobile must be 10 digits")
)

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidMobile reports whether s is exactly ten ASCII digits.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// ValidateContact checks name, email and mobile in that order and returns the first failure.
func (l Lead) ValidateContact() error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return ErrNameRequired
	case !ValidEmail(l.Email):
		return ErrEmailInvalid
	case !ValidMobile(l.Mobile):
		return ErrMobileInvalid
	}
	return nil
}

// FromForm reads a Lead from submitted form values. Every field is trimmed.
func FromForm(values url.Values) Lead {
	get := func(k string) string { return strings.TrimSpace(values.Get(k)) }
	return Lead{
		Name:       get(FieldName),
		Email:      get(FieldEmail),
		Mobile:     get(FieldMobile),
		Course:     get(FieldCourse),
		City:       get(FieldCity),
		Background: get(FieldBackground),
		Mode:       get(FieldMode),
	}
}

var strict = bluemonday.StrictPolicy()

func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Sanitized returns a copy with markup stripped from the free-text fields.
// Email and mobile are left as typed; their validation already constrains them.
func (l Lead) Sanitized() Lead {
	l.Name = plain(l.Name)
	l.Course = plain(l.Course)
	l.City = plain(l.City)
	l.Background = plain(l.Background)
	l.Mode = plain(l.Mode)
	return l
}

// Values encodes the lead as form fields for the remote endpoint.
func (l Lead) Values() url.Values {
	return url.Values{
		FieldName:       {l.Name},
		FieldEmail:      {l.Email},
		FieldMobile:     {l.Mobile},
		FieldCourse:     {l.Course},
		FieldCity:       {l.City},
		FieldBackground: {l.Background},
		FieldMode:       {l.Mode},
	}
}

// MaskMobile keeps the first two and last two digits: 9876543210 -> 98******10.
func MaskMobile(mobile string) string {
	if len(mobile) <= 4 {
		return strings.Repeat("*", len(mobile))
	}
	return mobile[:2] + strings.Repeat("*", len(mobile)-4) + mobile[len(mobile)-2:]
}

// MaskEmail keeps the first character of the local part: jane@example.com -> j***@example.com.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
