// Package session owns the authentication token and the current-user
// identity. The invariant it maintains: token and user are either both set
// or both absent, and they swap atomically. No partially-authenticated state
// is ever observable.
package session

import (
	"context"
	"sync"

	"github.com/AswinRaj1123/NyayaAI/internal/core/api"
	"github.com/AswinRaj1123/NyayaAI/internal/core/models"
)

// Session is the process-wide authentication state. The token is mutated only
// here; everything else reads it through Token().
type Session struct {
	api   *api.Client
	store TokenStore

	mu    sync.RWMutex
	token string
	user  *models.User

	onChange func(authenticated bool)
}

// New constructs an unauthenticated session backed by a token store.
func New(client *api.Client, store TokenStore) *Session {
	return &Session{api: client, store: store}
}

// OnChange registers a callback invoked after every transition between the
// authenticated and unauthenticated states. Used by interfaces to react to
// teardown triggered by a rejected token.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the validated identity, or false when logged out.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether both token and user are present.
func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Login exchanges credentials for a token, resolves the identity behind it,
// and persists the token. On any failure nothing changes: the session stays
// logged out and the error carries the backend's detail for the caller to
// surface.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	user, err := s.api.Me(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.set(token, user)
	return nil
}

// Register creates an account without authenticating. Callers send the user
// to Login on success.
func (s *Session) Register(ctx context.Context, email, password, fullName string) error {
	return s.api.Register(ctx, email, password, fullName)
}

// Restore revives a persisted token from a previous run. The token is not
// trusted until /me resolves; a failed resolution clears the stored token
// once and does not retry. Returns true when a session was restored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Load()
	if err != nil || token == "" {
		return false, err
	}
	user, err := s.api.Me(ctx, token)
	if err != nil {
		if api.IsAuth(err) {
			s.Logout()
			return false, nil
		}
		// Backend unreachable: keep the stored token for next time, but do
		// not expose an unvalidated identity.
		return false, err
	}
	s.set(token, user)
	return true, nil
}

// Logout clears the durable token, the in-memory token, and the identity.
// Safe to call when already logged out, and the teardown path for a 401 on
// any authenticated request.
func (s *Session) Logout() {
	_ = s.store.Clear()
	s.mu.Lock()
	wasAuthed := s.user != nil
	s.token = ""
	s.user = nil
	fn := s.onChange
	s.mu.Unlock()
	if wasAuthed && fn != nil {
		fn(false)
	}
}

func (s *Session) set(token string, user models.User) {
	s.mu.Lock()
	s.token = token
	s.user = &user
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(true)
	}
}
