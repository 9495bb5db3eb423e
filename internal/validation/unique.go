package validation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last change before a uniqueness check runs.
const DefaultDebounce = 500 * time.Millisecond

// ExistsFunc asks a remote service whether value is already taken.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// UniqueOption configures a UniqueValidator.
type UniqueOption func(*UniqueValidator)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) UniqueOption {
	return func(u *UniqueValidator) {
		u.debounce = d
	}
}

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) UniqueOption {
	return func(u *UniqueValidator) {
		u.clock = c
	}
}

// WithLogger sets the logger used to report failed checks.
func WithLogger(l *slog.Logger) UniqueOption {
	return func(u *UniqueValidator) {
		u.log = l
	}
}

// WithOnSettle registers a callback invoked after each applied result.
// It runs outside the validator's lock, on whichever goroutine completed the check.
func WithOnSettle(f func(value string, status Status)) UniqueOption {
	return func(u *UniqueValidator) {
		u.onSettle = f
	}
}

// UniqueValidator debounces a remote existence check for a single field.
// Only the check for the field's latest value may change its state; failed
// checks are treated as "not taken".
type UniqueValidator struct {
	check    ExistsFunc
	tag      Tag
	debounce time.Duration
	clock    Clock
	log      *slog.Logger
	onSettle func(string, Status)

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	current string
	status  Status
	errs    Errors
}

// NewUnique returns a validator that sets tag when check reports the value exists.
func NewUnique(check ExistsFunc, tag Tag, opts ...UniqueOption) *UniqueValidator {
	u := &UniqueValidator{
		check:    check,
		tag:      tag,
		debounce: DefaultDebounce,
		clock:    RealClock(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Trigger schedules a check of value, superseding any check not yet started.
// An empty value clears the error without a remote call.
func (u *UniqueValidator) Trigger(ctx context.Context, value string) {
	u.mu.Lock()
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
	u.gen++
	u.current = value
	if value == "" {
		u.status = StatusValid
		u.errs = nil
		u.mu.Unlock()
		u.settle(value, StatusValid)
		return
	}
	u.status = StatusPending
	u.errs = nil
	gen := u.gen
	u.timer = u.clock.AfterFunc(u.debounce, func() {
		u.run(ctx, value, gen)
	})
	u.mu.Unlock()
}

func (u *UniqueValidator) run(ctx context.Context, value string, gen uint64) {
	exists, err := u.check(ctx, value)
	if err != nil {
		u.log.Warn("uniqueness check failed, accepting value", "tag", string(u.tag), "error", err)
		exists = false
	}

	u.mu.Lock()
	if u.current != value {
		u.mu.Unlock()
		return
	}
	if gen == u.gen {
		u.timer = nil
	}
	if exists {
		u.status = StatusInvalid
		u.errs = NewErrors(u.tag)
	} else {
		u.status = StatusValid
		u.errs = nil
	}
	status := u.status
	u.mu.Unlock()
	u.settle(value, status)
}

func (u *UniqueValidator) settle(value string, status Status) {
	if u.onSettle != nil {
		u.onSettle(value, status)
	}
}

// Reset cancels any scheduled check and clears the state.
func (u *UniqueValidator) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
	u.gen++
	u.current = ""
	u.status = StatusValid
	u.errs = nil
}

// Status reports the state for the latest triggered value.
func (u *UniqueValidator) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Errors returns a copy of the async error tags.
func (u *UniqueValidator) Errors() Errors {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.errs.Clone()
}

// Value returns the latest triggered value.
func (u *UniqueValidator) Value() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.current
}
