package session

import (
	"context"
	"log"
	"sync"

	"github.com/fsanano/storefront-client/internal/model"
)

type authAPI interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Signup(ctx context.Context, username, email, password string) (string, error)
}

// Hooks are fired on session transitions. All are optional.
type Hooks struct {
	// OnLogin runs after a session is established; ctx is cancelled
	// when that session is torn down.
	OnLogin func(ctx context.Context)
	// OnLogout runs on every teardown, explicit or forced.
	OnLogout func()
	// NavigateToLogin signals the presentation layer after a forced
	// teardown. Fired at most once per session.
	NavigateToLogin func()
}

// Manager owns the authenticated session: the bearer token, the user
// identity, and their persisted copies. Token and user are always set
// or cleared together.
type Manager struct {
	api   authAPI
	store Store
	hooks Hooks

	loginMu sync.Mutex // serializes concurrent logins

	mu      sync.Mutex
	session *model.Session
	cancel  context.CancelFunc
	ctx     context.Context
}

// New restores any persisted session from the store. A half-written
// pair is discarded rather than restored.
func New(ctx context.Context, api authAPI, store Store, hooks Hooks) (*Manager, error) {
	m := &Manager{api: api, store: store, hooks: hooks}
	m.ctx = cancelledContext()

	sess, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess != nil && sess.Token != "" {
		m.mu.Lock()
		m.establishLocked(*sess)
		m.mu.Unlock()
	}
	return m, nil
}

// Login authenticates against the backend and establishes the session.
// On failure no state changes; the previous session, if any, survives.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Session, error) {
	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	sess, err := m.api.Login(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	if err := m.store.Save(ctx, sess); err != nil {
		// The session still works for this process; it just won't
		// survive a restart.
		log.Printf("session: persist failed: %v", err)
	}

	m.mu.Lock()
	m.teardownLocked()
	lifetime := m.establishLocked(sess)
	m.mu.Unlock()

	if m.hooks.OnLogin != nil {
		m.hooks.OnLogin(lifetime)
	}
	return sess, nil
}

func (m *Manager) Signup(ctx context.Context, username, email, password string) (string, error) {
	return m.api.Signup(ctx, username, email, password)
}

// Logout clears the session in memory and in the store. Safe to call
// repeatedly and with no session active.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	hadSession := m.session != nil
	m.teardownLocked()
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	if hadSession && m.hooks.OnLogout != nil {
		m.hooks.OnLogout()
	}
	return nil
}

// HandleUnauthorized forces a logout after an authentication-failure
// response. Concurrent calls for the same session collapse into one
// teardown and one navigation signal.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return
	}
	m.teardownLocked()
	m.mu.Unlock()

	if err := m.store.Clear(context.Background()); err != nil {
		log.Printf("session: clear persisted state: %v", err)
	}
	if m.hooks.OnLogout != nil {
		m.hooks.OnLogout()
	}
	if m.hooks.NavigateToLogin != nil {
		m.hooks.NavigateToLogin()
	}
}

// Token implements the credential hook for outbound requests.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Current returns the active session, if any.
func (m *Manager) Current() (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return model.Session{}, false
	}
	return *m.session, true
}

// Lifetime returns a context cancelled when the current session is
// torn down. With no session active it is already cancelled.
func (m *Manager) Lifetime() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx
}

func (m *Manager) establishLocked(sess model.Session) context.Context {
	s := sess
	m.session = &s
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m.ctx
}

func (m *Manager) teardownLocked() {
	m.session = nil
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.ctx = cancelledContext()
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
