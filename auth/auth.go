// Package auth manages the dashboard session: demo credential login, opaque
// bearer tokens, persisted session state, and the
// anonymous/authenticating/authenticated state machine.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Ahmedsalem001/BOD-Dashboard/apperror"
	"github.com/Ahmedsalem001/BOD-Dashboard/localstore"
)

// Persisted client-state keys, matching the browser localStorage contract.
const (
	StorageKeyToken = "authToken"
	StorageKeyUser  = "user"
)

// Demo credential rule: exactly this pair logs in.
const (
	demoEmail    = "admin@example.com"
	demoPassword = "password"
)

// State is the session state machine position.
type State int

const (
	// StateAnonymous means no live session.
	StateAnonymous State = iota
	// StateAuthenticating means a login attempt is in flight.
	StateAuthenticating
	// StateAuthenticated means a live session exists.
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// User is the session user snapshot embedded in the token and persisted
// alongside it.
type User struct {
	ID     int    `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// Session is the authenticated-user context derived from a stored token.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Manager owns the session lifecycle. At most one live session exists per
// manager; the token and user snapshot are persisted so the session survives
// a restart and is re-validated on load.
type Manager struct {
	store  *localstore.Store
	secret string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   State
	session *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager persisting into store.
func NewManager(store *localstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		secret: defaultSecret,
		logger: slog.Default(),
		now:    time.Now,
		state:  StateAnonymous,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns a copy of the live session, or nil when anonymous.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// BearerToken returns the live session token, or "" when anonymous. Upstream
// requests attach it as an Authorization header.
func (m *Manager) BearerToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

// Login validates credentials against the demo rule and, on success, mints a
// token, persists it with the user snapshot, and transitions to
// authenticated. On failure the state returns to anonymous and an
// InvalidCredentials error is returned.
func (m *Manager) Login(creds Credentials) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateAuthenticating

	if creds.Email != demoEmail || creds.Password != demoPassword {
		m.state = StateAnonymous
		m.logger.Info("login rejected", "email", creds.Email)
		return nil, apperror.NewInvalidCredentials()
	}

	user := User{
		ID:     1,
		Email:  creds.Email,
		Name:   "Admin User",
		Role:   "admin",
		Avatar: "https://i.pravatar.cc/150?img=1",
	}

	token, expiresAt, err := mintToken(user, m.secret, m.now())
	if err != nil {
		m.state = StateAnonymous
		return nil, apperror.NewInternal("failed to create session", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		m.state = StateAnonymous
		return nil, apperror.NewInternal("failed to create session", err)
	}
	if err := m.store.Set(StorageKeyToken, token); err != nil {
		m.state = StateAnonymous
		return nil, apperror.NewInternal("failed to persist session", err)
	}
	if err := m.store.Set(StorageKeyUser, string(userJSON)); err != nil {
		m.state = StateAnonymous
		return nil, apperror.NewInternal("failed to persist session", err)
	}

	m.session = &Session{Token: token, User: user, ExpiresAt: expiresAt}
	m.state = StateAuthenticated
	m.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)

	s := *m.session
	return &s, nil
}

// Logout clears the persisted token and user and transitions to anonymous
// unconditionally. There is no failure path that leaves a stale session.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(StorageKeyToken); err != nil {
		m.logger.Warn("failed to clear persisted token", "error", err)
	}
	if err := m.store.Delete(StorageKeyUser); err != nil {
		m.logger.Warn("failed to clear persisted user", "error", err)
	}

	m.session = nil
	m.state = StateAnonymous
	m.logger.Info("logged out")
}

// Restore re-validates a persisted session on startup. A missing token
// leaves the manager anonymous; an expired or malformed token clears the
// persisted data and leaves it anonymous. Restore never returns an error to
// the caller: this is a recovery path, not a user-facing failure.
func (m *Manager) Restore() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Get(StorageKeyToken)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			m.logger.Warn("failed to read persisted token", "error", err)
		}
		m.state = StateAnonymous
		return nil
	}

	claims, err := decodeToken(token, m.now())
	if err != nil {
		m.logger.Info("discarding invalid persisted session", "error", err)
		m.clearPersisted()
		m.state = StateAnonymous
		return nil
	}

	user := User{
		ID:     claims.UserID,
		Email:  claims.Email,
		Name:   "Admin User",
		Role:   claims.Role,
		Avatar: "https://i.pravatar.cc/150?img=1",
	}
	// Prefer the persisted snapshot when it decodes; the claims only carry
	// the identity fields.
	if userJSON, err := m.store.Get(StorageKeyUser); err == nil {
		var persisted User
		if err := json.Unmarshal([]byte(userJSON), &persisted); err == nil {
			user = persisted
		}
	}

	m.session = &Session{Token: token, User: user, ExpiresAt: claims.ExpiresAt.Time}
	m.state = StateAuthenticated
	m.logger.Info("session restored", "user_id", user.ID, "expires_at", claims.ExpiresAt.Time)

	s := *m.session
	return &s
}

// Validate checks a presented bearer token against the live session.
func (m *Manager) Validate(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || m.state != StateAuthenticated {
		return apperror.NewInvalidOrExpiredToken(nil)
	}
	if token != m.session.Token {
		return apperror.NewInvalidOrExpiredToken(nil)
	}
	if _, err := decodeToken(token, m.now()); err != nil {
		// Session aged out while live: drop it.
		m.clearPersisted()
		m.session = nil
		m.state = StateAnonymous
		return err
	}
	return nil
}

func (m *Manager) clearPersisted() {
	if err := m.store.Delete(StorageKeyToken); err != nil {
		m.logger.Warn("failed to clear persisted token", "error", err)
	}
	if err := m.store.Delete(StorageKeyUser); err != nil {
		m.logger.Warn("failed to clear persisted user", "error", err)
	}
}
