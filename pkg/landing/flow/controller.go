package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/ratelimit"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Notifier receives every submitted lead.
type Notifier interface {
	Notify(ctx context.Context, l lead.Lead) error
}

// Observer is told about every state change.
type Observer interface {
	ObserveTransition(from, to session.State)
}

// Options tune the controller.
type Options struct {
	RequireAgreement bool
	RedirectURL      string
	RedirectDelay    time.Duration
	// NotifyTimeout bounds each background notification. Default 30s.
	NotifyTimeout time.Duration
}

// Result is what a visitor gets back for one intent.
type Result struct {
	// Session is the visitor's session after the intent; its ID may be new.
	Session *session.Session
	View    presenter.View
	// Err is the guard, remote or store error behind a failure status.
	Err error
}

// Controller applies intents to stored sessions. The per-session lock is
// held while loading, deciding and applying, never across a remote call.
type Controller struct {
	sessions session.Store
	remote   remote.Client
	cooldown *ratelimit.Cooldown
	opts     Options
	logger   logging.Logger

	notifier Notifier
	observer Observer

	locks *keyedMutex
	tasks *Tasks

	mu      sync.Mutex
	closed  bool
	pending map[string]int
	wg      sync.WaitGroup
}

// NewController creates a controller. cooldown may be nil to disable it.
func NewController(sessions session.Store, client remote.Client, cooldown *ratelimit.Cooldown, opts Options, logger logging.Logger) *Controller {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 30 * time.Second
	}
	return &Controller{
		sessions: sessions,
		remote:   client,
		cooldown: cooldown,
		opts:     opts,
		logger:   logger.WithModule("flow"),
		locks:    newKeyedMutex(),
		tasks:    NewTasks(),
		pending:  make(map[string]int),
	}
}

// SetNotifier sets the notifier for submitted leads.
func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

// SetObserver sets the transition observer.
func (c *Controller) SetObserver(o Observer) {
	c.observer = o
}

// Handle applies one intent for the session sessionID.
func (c *Controller) Handle(ctx context.Context, sessionID string, in Intent, msgs Messages) Result {
	if msgs == nil {
		msgs = TranslatorMessages(i18n.NewTranslator(), i18n.English)
	}

	unlock := c.locks.Lock(sessionID)
	s, err := session.Load(ctx, c.sessions, sessionID)
	if err != nil {
		unlock()
		return c.storeFailure(session.New(), err, msgs)
	}

	env := c.env(ctx, s, in, msgs)
	d := Decide(s, in, env)
	if d.Next != nil && c.unstoredIdle(s, d.Next) {
		d.Next = nil
	}
	if d.Next != nil {
		if err := c.save(ctx, s, d.Next); err != nil {
			unlock()
			return c.storeFailure(s, err, msgs)
		}
		s = d.Next
	}
	if d.Err != nil {
		c.logger.Debug("Intent blocked", "session", shortID(s.ID), "intent", in.Kind, "reason", d.Err)
	}
	if d.Call == nil {
		unlock()
		return Result{Session: s, View: d.View, Err: d.Err}
	}
	base := s.Revision
	c.addPending(s.ID, 1)
	defer c.addPending(s.ID, -1)
	unlock()

	call := d.Call
	var resp *remote.Response
	callErr := c.tasks.Run(ctx, taskKey(s.ID, call.Action), func(taskCtx context.Context) error {
		var err error
		resp, err = c.remote.Perform(taskCtx, call.Action, call.Fields)
		// The endpoint has sent an OTP even when the outcome is discarded below.
		if err == nil && call.Action == remote.ActionSendOTP {
			c.startCooldown(context.WithoutCancel(ctx), s.ID, in.Lead.Mobile)
		}
		return err
	})
	if errors.Is(callErr, ErrSuperseded) {
		return c.discard(ctx, s.ID, ErrSuperseded, msgs)
	}

	unlock = c.locks.Lock(s.ID)
	defer unlock()

	current, err := session.Load(ctx, c.sessions, s.ID)
	if err != nil {
		return c.storeFailure(s, err, msgs)
	}
	if current.Revision != base {
		return c.discarded(current, ErrStale, msgs)
	}

	next, view := Resolve(current, in, resp, callErr, env)
	c.logOutcome(current, in, call.Action, callErr)

	if view.State == string(session.StateSubmitted) {
		if err := c.sessions.Set(ctx, bumped(next, current)); err != nil {
			c.logger.Error("Failed to reset session after submit", "session", shortID(current.ID), "error", err)
		}
		c.observe(current.State, session.StateSubmitted)
		c.observe(session.StateSubmitted, session.StateIdle)

		submitted := in.Lead.Sanitized()
		submitted.Mobile = current.Mobile
		c.notifyAsync(submitted)
		return Result{Session: next, View: view}
	}

	if err := c.save(ctx, current, next); err != nil {
		return c.storeFailure(current, err, msgs)
	}
	return Result{Session: next, View: view, Err: callErr}
}

// View renders the stored session without changing it.
func (c *Controller) View(ctx context.Context, sessionID string, msgs Messages) Result {
	if msgs == nil {
		msgs = TranslatorMessages(i18n.NewTranslator(), i18n.English)
	}
	s, err := session.Load(ctx, c.sessions, sessionID)
	if err != nil {
		return c.storeFailure(session.New(), err, msgs)
	}
	return Result{Session: s, View: ViewOf(s, msgs)}
}

// Close cancels running remote calls and waits for background notifications.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.tasks.Close()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flow: waiting for notifications: %w", ctx.Err())
	}
}

func (c *Controller) env(ctx context.Context, s *session.Session, in Intent, msgs Messages) Env {
	env := Env{
		Messages:         msgs,
		RequireAgreement: c.opts.RequireAgreement,
		RedirectURL:      c.opts.RedirectURL,
		RedirectDelay:    c.opts.RedirectDelay,
	}
	if c.cooldown == nil || in.Kind != KindRequestOTP {
		return env
	}

	env.CooldownSeconds = int(c.cooldown.Period().Seconds())
	var remaining time.Duration
	for _, key := range cooldownKeys(s.ID, in.Lead.Mobile) {
		r, err := c.cooldown.Remaining(ctx, key)
		if err != nil {
			c.logger.Warn("Cooldown check failed", "key", key, "error", err)
			continue
		}
		if r > remaining {
			remaining = r
		}
	}
	if remaining > 0 {
		env.CooldownActive = true
		env.CooldownSeconds = int((remaining + time.Second - 1) / time.Second)
	}
	return env
}

func (c *Controller) startCooldown(ctx context.Context, sessionID, mobile string) {
	if c.cooldown == nil {
		return
	}
	for _, key := range cooldownKeys(sessionID, mobile) {
		started, err := c.cooldown.Start(ctx, key)
		if err != nil {
			c.logger.Warn("Failed to start cooldown", "key", key, "error", err)
			continue
		}
		if !started {
			c.logger.Debug("Cooldown already running", "key", key)
		}
	}
}

// ClearCooldown lifts the cooldown for a session and mobile.
func (c *Controller) ClearCooldown(ctx context.Context, sessionID, mobile string) {
	if c.cooldown == nil {
		return
	}
	for _, key := range cooldownKeys(sessionID, mobile) {
		if err := c.cooldown.Clear(ctx, key); err != nil {
			c.logger.Warn("Failed to clear cooldown", "key", key, "error", err)
		}
	}
}

// save stores next on top of prev with the next revision.
func (c *Controller) save(ctx context.Context, prev, next *session.Session) error {
	if err := c.sessions.Set(ctx, bumped(next, prev)); err != nil {
		return err
	}
	c.observe(prev.State, next.State)
	return nil
}

func bumped(next, prev *session.Session) *session.Session {
	next.Revision = prev.Revision + 1
	return next
}

// unstoredIdle reports whether next is an idle session that was never stored
// and has no remote call running, so storing it would change nothing.
// The caller holds the session lock.
func (c *Controller) unstoredIdle(prev, next *session.Session) bool {
	if prev.Revision != 0 || next.State != session.StateIdle || next.Mobile != "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[prev.ID] == 0
}

func (c *Controller) addPending(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] += delta
	if c.pending[id] <= 0 {
		delete(c.pending, id)
	}
}

func (c *Controller) observe(from, to session.State) {
	if c.observer != nil && from != to {
		c.observer.ObserveTransition(from, to)
	}
}

func (c *Controller) discard(ctx context.Context, id string, reason error, msgs Messages) Result {
	unlock := c.locks.Lock(id)
	defer unlock()
	current, err := session.Load(ctx, c.sessions, id)
	if err != nil {
		return c.storeFailure(session.New(), err, msgs)
	}
	return c.discarded(current, reason, msgs)
}

func (c *Controller) discarded(current *session.Session, reason error, msgs Messages) Result {
	c.logger.Debug("Outcome discarded", "session", shortID(current.ID), "reason", reason)
	v := ViewOf(current, msgs)
	v.Superseded = true
	return Result{Session: current, View: v, Err: reason}
}

func (c *Controller) storeFailure(s *session.Session, err error, msgs Messages) Result {
	c.logger.Error("Session store failed", "session", shortID(s.ID), "error", err)
	return Result{
		Session: s,
		View:    ViewOf(s, msgs).WithStatus(presenter.Failure(msgs("remote.unavailable"))),
		Err:     err,
	}
}

func (c *Controller) logOutcome(s *session.Session, in Intent, action remote.Action, err error) {
	mobile := s.Mobile
	if action == remote.ActionSendOTP {
		mobile = in.Lead.Mobile
	}
	kv := []interface{}{"session", shortID(s.ID), "action", action, "mobile", lead.MaskMobile(mobile), "outcome", remote.Outcome(err)}
	switch {
	case err == nil:
		c.logger.Info("Remote action succeeded", kv...)
	case errors.Is(err, remote.ErrRejected):
		c.logger.Info("Remote action rejected", append(kv, "error", err)...)
	default:
		c.logger.Warn("Remote action failed", append(kv, "error", err)...)
	}
}

func (c *Controller) notifyAsync(l lead.Lead) {
	if c.notifier == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("Notification skipped during shutdown", "mobile", lead.MaskMobile(l.Mobile))
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.NotifyTimeout)
		defer cancel()
		if err := c.notifier.Notify(ctx, l); err != nil {
			c.logger.Warn("Lead notification failed", "email", lead.MaskEmail(l.Email), "error", err)
			return
		}
		c.logger.Debug("Lead notification sent", "email", lead.MaskEmail(l.Email))
	}()
}

func taskKey(sessionID string, action remote.Action) string {
	return sessionID + ":" + string(action)
}

func cooldownKeys(sessionID, mobile string) []string {
	keys := []string{"session:" + sessionID}
	if mobile != "" {
		keys = append(keys, "mobile:"+mobile)
	}
	return keys
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
