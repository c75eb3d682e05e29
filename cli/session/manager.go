package session

import (
	"context"
	"sync"

	"github.com/usersystem/usersys/cli/api"
	"github.com/usersystem/usersys/pkg/config"
	"github.com/usersystem/usersys/pkg/logger"
)

// Backend is what the session manager needs from the HTTP layer.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Me(ctx context.Context) (*api.Profile, error)
}

// Session is the in-memory authentication state. Role and User are only
// present while Token is present; the triple always changes as one unit.
type Session struct {
	Token     string
	Role      string
	User      *api.Profile
	IsLoading bool
}

// IsAuthenticated reports whether a token is held.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message,omitempty"`
}

// Manager owns the process-wide session. All mutations funnel through
// its operations; views only read snapshots.
type Manager struct {
	mu      sync.Mutex
	cfg     *config.Config
	store   *Store
	backend Backend
	session Session
}

// NewManager creates a session manager over the credential store and
// HTTP backend.
func NewManager(cfg *config.Config, store *Store, backend Backend) *Manager {
	return &Manager{cfg: cfg, store: store, backend: backend}
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Store exposes the underlying credential store.
func (m *Manager) Store() *Store {
	return m.store
}

// Hydrate restores the session from persisted credentials at startup and
// refreshes the profile when a token exists.
func (m *Manager) Hydrate(ctx context.Context) {
	token := m.store.Token()
	if token == "" {
		return
	}
	m.mu.Lock()
	m.session.Token = token
	m.session.Role = m.store.Role()
	m.mu.Unlock()
	if err := m.FetchUserDetails(ctx, token); err != nil {
		logger.FromContext(ctx).Debug("session hydration failed", "error", err)
	}
}

// Login authenticates and establishes the session. Token and role are
// persisted before the profile fetch so the bearer middleware sees the
// new token. A failed login leaves both the store and the in-memory
// session untouched.
func (m *Manager) Login(ctx context.Context, email, password string) LoginResult {
	log := logger.FromContext(ctx)
	resp, err := m.backend.Login(ctx, email, password)
	if err != nil {
		log.Debug("login failed", "email", email, "error", err)
		message := api.ServerMessage(err)
		if message == "" {
			message = "Credenciales inválidas."
		}
		return LoginResult{Success: false, Message: message}
	}
	role := ResolveRole(resp.Roles, m.cfg.Auth.RolePrecedence, m.cfg.Auth.DefaultRole)
	if err := m.store.Set(KeyToken, resp.AccessToken); err != nil {
		log.Error("failed to persist session token", "error", err)
		return LoginResult{Success: false, Message: "No se pudo guardar la sesión."}
	}
	if err := m.store.Set(KeyRole, role); err != nil {
		log.Error("failed to persist session role", "error", err)
	}
	m.mu.Lock()
	m.session.Token = resp.AccessToken
	m.session.Role = role
	m.mu.Unlock()
	// Hydrate the full profile; its own error handling decides whether
	// the session survives.
	if err := m.FetchUserDetails(ctx, resp.AccessToken); err != nil {
		log.Debug("profile fetch after login failed", "error", err)
	}
	return LoginResult{Success: true, Role: role}
}

// FetchUserDetails loads the authenticated profile. An absent token
// clears the in-memory user/role and issues no network call. A 401
// leaves stored credentials alone (the client's hooks already handled
// the logout); any other failure tears the whole session down.
func (m *Manager) FetchUserDetails(ctx context.Context, token string) error {
	m.setLoading(true)
	defer m.setLoading(false)
	if token == "" {
		m.mu.Lock()
		m.session.User = nil
		m.session.Role = ""
		m.mu.Unlock()
		return nil
	}
	profile, err := m.backend.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		logger.FromContext(ctx).Warn("failed to fetch user details", "error", err)
		if clearErr := m.store.ClearAll(); clearErr != nil {
			logger.FromContext(ctx).Error("failed to clear credentials", "error", clearErr)
		}
		m.mu.Lock()
		m.session = Session{}
		m.mu.Unlock()
		return err
	}
	role := ResolveRole(profile.RoleNames(), m.cfg.Auth.RolePrecedence, m.cfg.Auth.DefaultRole)
	if err := m.store.Set(KeyRole, role); err != nil {
		logger.FromContext(ctx).Warn("failed to persist resolved role", "error", err)
	}
	m.mu.Lock()
	m.session.Token = token
	m.session.Role = role
	m.session.User = profile
	m.mu.Unlock()
	return nil
}

// Logout clears the store and the in-memory session unconditionally. It
// never navigates; that is the caller's or the route guard's job.
func (m *Manager) Logout(ctx context.Context) {
	log := logger.FromContext(ctx)
	if err := m.store.ClearAll(); err != nil {
		log.Error("failed to clear credentials", "error", err)
	}
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()
	log.Info("session closed")
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.session.IsLoading = loading
	m.mu.Unlock()
}
