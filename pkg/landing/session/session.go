// Package session keeps each visitor's OTP phase between requests.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// State is the single phase of a visitor's form.
type State string

const (
	// StateIdle: nothing requested yet, or reset after a submit, page load or mobile edit.
	StateIdle State = "idle"
	// StateOtpRequested: the endpoint accepted send_otp for Session.Mobile.
	StateOtpRequested State = "otp_requested"
	// StateOtpVerified: the endpoint accepted verify for Session.Mobile.
	StateOtpVerified State = "otp_verified"
	// StateSubmitting: submit_data is in flight.
	StateSubmitting State = "submitting"
	// StateSubmitted: submit_data succeeded. Reported to the page, never stored.
	StateSubmitted State = "submitted"
)

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateOtpRequested, StateOtpVerified, StateSubmitting, StateSubmitted:
		return true
	}
	return false
}

// Session is the server-side replacement for the page's OTP flags.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Mobile    string    `json:"mobile,omitempty"`
	Revision  uint64    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrSessionNotFound is returned when no session exists for an ID.
var ErrSessionNotFound = errors.New("session: not found")

// New returns an idle session with a fresh ID.
func New() *Session {
	return &Session{ID: NewID(), State: StateIdle}
}

// NewID returns a random session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Reset returns the session to Idle, keeping its ID and revision.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Mobile = ""
}

// Clone returns a copy.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
