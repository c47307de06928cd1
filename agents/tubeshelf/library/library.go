// Package library owns the in-memory application state and every mutation of
// it. Each mutation is applied to a copy, persisted as a whole snapshot, and
// only then becomes visible, so a failed save leaves the state untouched.
package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tubeshelf/internal/models"
)

// Saver persists a full state snapshot.
type Saver interface {
	Save(ctx context.Context, state *models.State) error
}

// Library is the single writer of a models.State.
type Library struct {
	mu    sync.RWMutex
	state *models.State
	saver Saver
	now   func() time.Time
}

// Option configures a Library.
type Option func(*Library)

// WithClock overrides the clock used for session checks.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// New takes ownership of state. A nil state starts from models.NewState.
func New(state *models.State, saver Saver, opts ...Option) *Library {
	if state == nil {
		state = models.NewState()
	}
	l := &Library{state: state, saver: saver, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// update runs fn against a copy of the state and commits the copy once it
// has been saved.
func (l *Library) update(ctx context.Context, fn func(s *models.State) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := l.saver.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	l.state = next
	return nil
}

func (l *Library) read(fn func(s *models.State)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.state)
}

// Snapshot returns a deep copy of the current state.
func (l *Library) Snapshot() *models.State {
	var c *models.State
	l.read(func(s *models.State) { c = s.Clone() })
	return c
}

// Settings returns the persisted settings.
func (l *Library) Settings() models.Settings {
	var settings models.Settings
	l.read(func(s *models.State) { settings = s.Settings })
	return settings
}

// UpdateSettings replaces the settings. MaxResults must be within 0..50.
func (l *Library) UpdateSettings(ctx context.Context, settings models.Settings) error {
	if settings.MaxResults < 0 || settings.MaxResults > models.MaxResultsLimit {
		return fmt.Errorf("%w: max results must be between 0 and %d", ErrInvalidInput, models.MaxResultsLimit)
	}
	return l.update(ctx, func(s *models.State) error {
		s.Settings = settings
		return nil
	})
}

// Session returns the stored auth session as is, without an expiry check.
func (l *Library) Session() models.AuthSession {
	var session models.AuthSession
	l.read(func(s *models.State) {
		session = s.Auth
		if s.Auth.UserInfo != nil {
			info := *s.Auth.UserInfo
			session.UserInfo = &info
		}
	})
	return session
}

// SetSession stores a new session.
func (l *Library) SetSession(ctx context.Context, session models.AuthSession) error {
	if session.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrInvalidInput)
	}
	return l.update(ctx, func(s *models.State) error {
		s.Auth = session
		return nil
	})
}

// ClearSession drops token, expiry and profile together.
func (l *Library) ClearSession(ctx context.Context) error {
	return l.update(ctx, func(s *models.State) error {
		s.Auth = models.AuthSession{}
		return nil
	})
}
