// Package remote talks to the third-party form-processing endpoint that owns
// the OTP record and receives the lead.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Action selects what the endpoint does with a request.
type Action string

const (
	// ActionSendOTP asks the endpoint to text an OTP to the mobile.
	ActionSendOTP Action = "send_otp"
	// ActionVerify checks an OTP for the mobile.
	ActionVerify Action = "verify"
	// ActionSubmit delivers the full lead.
	ActionSubmit Action = "submit_data"
)

// Actions lists every action, in flow order.
var Actions = []Action{ActionSendOTP, ActionVerify, ActionSubmit}

// StatusSuccess is the only status value that means the action was accepted.
const StatusSuccess = "success"

// Form field names used on the wire besides the lead fields.
const (
	FieldAction = "action"
	FieldMobile = "mobile"
	FieldOTP    = "otp"
)

// Response is the JSON envelope the endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client performs one action against the endpoint.
// A non-nil error is returned for every outcome other than status "success".
type Client interface {
	Perform(ctx context.Context, action Action, fields url.Values) (*Response, error)
}

// Errors returned by Perform. None of them is retried.
var (
	ErrHTTPStatus        = errors.New("remote: unexpected http status")
	ErrMalformedResponse = errors.New("remote: malformed response")
	ErrRejected          = errors.New("remote: action rejected")
	ErrUnavailable       = errors.New("remote: endpoint unavailable")
)

// StatusError reports a non-2xx reply.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: unexpected http status %d", e.Code)
}

// Is matches ErrHTTPStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// RejectedError carries the endpoint's message for a status other than "success".
type RejectedError struct {
	Action  Action
	Status  string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote: %s rejected (status %q): %s", e.Action, e.Status, e.Message)
}

// Is matches ErrRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Outcome labels for logs and metrics.
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeHTTPStatus  = "http_status"
	OutcomeMalformed   = "malformed"
	OutcomeUnavailable = "unavailable"
	OutcomeCanceled    = "canceled"
	OutcomeTransport   = "transport"
)

// Outcome classifies the error returned by Perform.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrRejected):
		return OutcomeRejected
	case errors.Is(err, ErrHTTPStatus):
		return OutcomeHTTPStatus
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformed
	case errors.Is(err, ErrUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeTransport
	}
}

// Fields builds the wire fields for an action: mobile always, otp for verify,
// and extra (the lead) for submit.
func Fields(action Action, mobile, otp string, extra url.Values) url.Values {
	v := url.Values{}
	if action == ActionSubmit {
		for k, vals := range extra {
			v[k] = append([]string(nil), vals...)
		}
	}
	v.Set(FieldMobile, mobile)
	if action == ActionVerify {
		v.Set(FieldOTP, otp)
	}
	return v
}
