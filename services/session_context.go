package services

import (
	"sponsorship_console/models"
	"sync"
)

// SessionContext is the single source of truth for one signed-in user's
// identity and bearer token. It is created per request (or per CLI run) and
// passed explicitly to everything that talks to the backend.
type SessionContext struct {
	mu            sync.RWMutex
	identity      models.User
	token         string
	authenticated bool

	// Invalidation callbacks fire once per signed-in period
	invalidated  bool
	onInvalidate []func(reason error)
	onRefresh    []func(token string) error
}

// NewSessionContext returns an anonymous session
func NewSessionContext() *SessionContext {
	return &SessionContext{}
}

// Identity returns the signed-in user, or the zero user when anonymous
func (s *SessionContext) Identity() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token returns the backend bearer token, empty when anonymous
func (s *SessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Role returns the backend role of the signed-in user
func (s *SessionContext) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity.HasAdminRights() {
		return models.RoleAdmin
	}
	return s.identity.Role
}

// IsAdmin reports whether the signed-in user holds admin rights
func (s *SessionContext) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.identity.HasAdminRights()
}

// Authenticated reports whether the session carries an identity and token
func (s *SessionContext) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SignIn installs identity and token, starting a new signed-in period
func (s *SessionContext) SignIn(identity models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.token = token
	s.authenticated = token != ""
	s.invalidated = false
}

// Refresh rotates the bearer token, e.g. after a password change
func (s *SessionContext) Refresh(token string) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if token == "" || token == s.token {
		s.mu.Unlock()
		return nil
	}
	s.token = token
	callbacks := make([]func(string) error, len(s.onRefresh))
	copy(callbacks, s.onRefresh)
	s.mu.Unlock()

	for _, fn := range callbacks {
		if err := fn(token); err != nil {
			return err
		}
	}
	return nil
}

// SignOut ends the session voluntarily
func (s *SessionContext) SignOut() {
	s.Invalidate(ErrSignedOut)
}

// Invalidate clears identity and token and notifies listeners. Listeners run
// once no matter how many concurrent requests hit a 401 at the same time.
func (s *SessionContext) Invalidate(reason error) {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.identity = models.User{}
	s.token = ""
	s.authenticated = false
	callbacks := make([]func(error), len(s.onInvalidate))
	copy(callbacks, s.onInvalidate)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(reason)
	}
}

// OnInvalidate registers fn to run when the session is invalidated
func (s *SessionContext) OnInvalidate(fn func(reason error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = append(s.onInvalidate, fn)
}

// OnRefresh registers fn to persist a rotated token
func (s *SessionContext) OnRefresh(fn func(token string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = append(s.onRefresh, fn)
}
