// Package auth tracks the OAuth session of the signed-in user.
//
// The session moves between three states. Login issues a token request and
// waits for it; the request can be cancelled while pending. Expiry is checked
// lazily whenever the session is read, never by a background timer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"tubeshelf/internal/models"
)

// State is the position of the session in its lifecycle.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// defaultTokenLifetime applies when the provider omits the expiry.
const defaultTokenLifetime = time.Hour

var (
	ErrLoginInProgress      = errors.New("a login is already in progress")
	ErrAlreadyAuthenticated = errors.New("already signed in")
	ErrNotAuthenticated     = errors.New("not signed in")
)

// TokenRequester obtains an access token from the identity provider.
type TokenRequester interface {
	RequestToken(ctx context.Context) (*oauth2.Token, error)
}

// ProfileFetcher looks up the profile that owns an access token.
type ProfileFetcher interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*models.UserInfo, error)
}

// SessionStore persists the session.
type SessionStore interface {
	Session() models.AuthSession
	SetSession(ctx context.Context, session models.AuthSession) error
	ClearSession(ctx context.Context) error
}

type Manager struct {
	mu        sync.Mutex
	store     SessionStore
	requester TokenRequester
	profiles  ProfileFetcher
	now       func() time.Time
	cancel    context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. A stored session that has already expired is
// cleared before the Manager is returned.
func NewManager(ctx context.Context, store SessionStore, requester TokenRequester, profiles ProfileFetcher, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:     store,
		requester: requester,
		profiles:  profiles,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := m.current(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// current returns the stored session after the expiry check. Callers hold no lock.
func (m *Manager) current(ctx context.Context) (models.AuthSession, error) {
	session := m.store.Session()
	if session.IsZero() {
		return session, nil
	}
	if session.AccessToken != "" && !session.Expired(m.now()) {
		return session, nil
	}

	log.Printf("Session expired at %s, signing out", session.ExpiresTime().Format(time.RFC3339))
	if err := m.store.ClearSession(ctx); err != nil {
		return models.AuthSession{}, fmt.Errorf("failed to clear expired session: %w", err)
	}
	return models.AuthSession{}, nil
}

// Session returns the active session, or the zero session when signed out.
func (m *Manager) Session(ctx context.Context) models.AuthSession {
	session, err := m.current(ctx)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	return session
}

func (m *Manager) State(ctx context.Context) State {
	m.mu.Lock()
	pending := m.cancel != nil
	m.mu.Unlock()
	if pending {
		return Authenticating
	}
	if m.Session(ctx).IsZero() {
		return Unauthenticated
	}
	return Authenticated
}

// Login requests a token and blocks until the provider answers, ctx is done,
// or CancelLogin is called. On success the session, including the user's
// profile, is stored. A failed profile lookup does not fail the login.
func (m *Manager) Login(ctx context.Context) (models.AuthSession, error) {
	if !m.Session(ctx).IsZero() {
		return models.AuthSession{}, ErrAlreadyAuthenticated
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return models.AuthSession{}, ErrLoginInProgress
	}
	loginCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
		cancel()
	}()

	log.Println("Requesting access token...")
	token, err := m.requester.RequestToken(loginCtx)
	if err != nil {
		log.Printf("Login failed: %v", err)
		return models.AuthSession{}, fmt.Errorf("login failed: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return models.AuthSession{}, errors.New("login failed: provider returned no access token")
	}

	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = m.now().Add(defaultTokenLifetime)
	}
	session := models.AuthSession{
		AccessToken: token.AccessToken,
		ExpiresAt:   expiry.UnixMilli(),
	}

	if info, err := m.profiles.FetchUserInfo(ctx, token.AccessToken); err != nil {
		log.Printf("Warning: failed to fetch user profile: %v", err)
	} else {
		session.UserInfo = info
	}

	if err := m.store.SetSession(ctx, session); err != nil {
		return models.AuthSession{}, err
	}
	if session.UserInfo != nil {
		log.Printf("Signed in as %s", session.UserInfo.Email)
	} else {
		log.Println("Signed in")
	}
	return session, nil
}

// CancelLogin aborts a pending Login. It reports whether one was pending.
func (m *Manager) CancelLogin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel == nil {
		return false
	}
	m.cancel()
	return true
}

// Logout clears token, expiry and profile together.
func (m *Manager) Logout(ctx context.Context) error {
	if m.State(ctx) != Authenticated {
		return ErrNotAuthenticated
	}
	if err := m.store.ClearSession(ctx); err != nil {
		return err
	}
	log.Println("Signed out")
	return nil
}
