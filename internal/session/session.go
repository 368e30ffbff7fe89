// Package session stores the logged-in user record in the key-value store and
// resolves the current user for a request token.
package session

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"placefeed/pkg/kv"
)

const keyPrefix = "user-session:"

const (
	RoleUser    = "user"
	RoleCompany = "company"
)

// Session is the authenticated user as seen by the rest of the system. UserID
// is the only field other packages rely on; the rest is profile data echoed
// back to clients.
type Session struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Role    string `json:"role"`
	Handle  string `json:"handle"`
}

// Provider resolves the current session, or nil when not authenticated.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
}

// Manager issues and resolves session tokens backed by a kv.Store.
type Manager struct {
	store kv.Store
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store}
}

// Start persists the session and returns its opaque token.
func (m *Manager) Start(ctx context.Context, s Session) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := m.store.Set(ctx, keyPrefix+token, string(payload)); err != nil {
		return "", err
	}
	return token, nil
}

// Current returns the session for a token. An empty token, an absent record,
// or a record that no longer decodes all read as "not logged in" rather than
// an error; local storage may hold stale or partially written data.
func (m *Manager) Current(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	raw, ok, err := m.store.Get(ctx, keyPrefix+token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, nil
	}
	if s.UserID == "" {
		return nil, nil
	}
	return &s, nil
}

// Clear removes the session record. Clearing an unknown token is a no-op.
func (m *Manager) Clear(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return m.store.Delete(ctx, keyPrefix+token)
}

// For binds the manager to one request's token, satisfying Provider.
func (m *Manager) For(token string) Provider {
	return tokenProvider{mgr: m, token: token}
}

type tokenProvider struct {
	mgr   *Manager
	token string
}

func (p tokenProvider) Current(ctx context.Context) (*Session, error) {
	return p.mgr.Current(ctx, p.token)
}
