package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// StubEndpoint is a local stand-in for the form-processing endpoint, used when
// no endpoint is configured. It accepts a fixed OTP for every mobile.
type StubEndpoint struct {
	server   *http.Server
	listener net.Listener
	logger   logging.Logger
	handler  *StubHandler
}

// NewStubEndpoint starts a stub on 127.0.0.1 at a free port.
// It returns nil (with a warning logged) if the port cannot be opened.
func NewStubEndpoint(code string, logger logging.Logger) *StubEndpoint {
	if logger == nil {
		logger = logging.NewSimpleLogger("stub-endpoint", logging.LevelInfo, true)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		logger.Warn("Failed to start stub endpoint", "error", err)
		return nil
	}

	h := NewStubHandler(code, logger)
	s := &StubEndpoint{
		server:   &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second},
		listener: listener,
		logger:   logger,
		handler:  h,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Warn("Stub endpoint server error", "error", err)
		}
	}()

	logger.Info("Stub endpoint started", "url", s.URL(), "otp", code)
	return s
}

// URL returns the endpoint URL to configure the client with.
func (s *StubEndpoint) URL() string {
	return fmt.Sprintf("http://%s/exec", s.listener.Addr().String())
}

// Leads returns the leads submitted so far.
func (s *StubEndpoint) Leads() []map[string]string {
	return s.handler.Leads()
}

// Stop shuts the stub down, forcing the listener closed after a short grace period.
func (s *StubEndpoint) Stop() {
	if s == nil || s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("Force closing stub endpoint", "error", err)
		_ = s.listener.Close()
		return
	}
	s.logger.Info("Stub endpoint stopped")
}

// StubHandler emulates the endpoint contract: send_otp, verify, submit_data.
type StubHandler struct {
	code   string
	logger logging.Logger

	mu       sync.Mutex
	sent     map[string]bool
	verified map[string]bool
	leads    []map[string]string
}

// NewStubHandler returns the stub's http.Handler, for use with httptest.
func NewStubHandler(code string, logger logging.Logger) *StubHandler {
	return &StubHandler{
		code:     code,
		logger:   logger,
		sent:     make(map[string]bool),
		verified: make(map[string]bool),
	}
}

func (h *StubHandler) Leads() []map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]map[string]string(nil), h.leads...)
}

func (h *StubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	mobile := r.PostForm.Get(FieldMobile)

	h.mu.Lock()
	defer h.mu.Unlock()

	switch Action(r.PostForm.Get(FieldAction)) {
	case ActionSendOTP:
		h.sent[mobile] = true
		h.logger.Info("Stub OTP issued", "mobile", lead.MaskMobile(mobile), "otp", h.code)
		writeStub(w, StatusSuccess, "OTP sent")
	case ActionVerify:
		if !h.sent[mobile] || r.PostForm.Get(FieldOTP) != h.code {
			writeStub(w, "error", "Invalid OTP")
			return
		}
		h.verified[mobile] = true
		writeStub(w, StatusSuccess, "OTP verified")
	case ActionSubmit:
		if !h.verified[mobile] {
			writeStub(w, "error", "Mobile not verified")
			return
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			if k != FieldAction {
				fields[k] = r.PostForm.Get(k)
			}
		}
		h.leads = append(h.leads, fields)
		delete(h.sent, mobile)
		delete(h.verified, mobile)
		writeStub(w, StatusSuccess, "Thank you! Your details have been submitted.")
	default:
		writeStub(w, "error", "Unknown action")
	}
}

func writeStub(w http.ResponseWriter, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Status: status, Message: message})
}
