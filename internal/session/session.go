// Package session owns the "who is signed in" state of the application:
// the current user, the persisted credential token, and the transitions
// between them. It is constructed once in cmd/atlas and injected into
// every component that needs it.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ImalAyodya/atlas/pkg/backend"
	"github.com/ImalAyodya/atlas/pkg/domain"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusInitializing is the state before the one-shot startup check
	// has resolved. Guarded views render a neutral loading indicator.
	StatusInitializing Status = iota
	// StatusAuthenticated means a user is signed in. User() is non-nil
	// exactly in this state.
	StatusAuthenticated
	// StatusUnauthenticated means no valid session exists.
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Result is the outcome of a login or register attempt. Failures are
// values, never escaping errors.
type Result struct {
	OK    bool
	Error string
}

// Fallback messages when the backend gives no usable failure message.
const (
	loginFailedMsg    = "Invalid email or password"
	registerFailedMsg = "Registration failed"
)

// Store is the single source of truth for session state. Its methods are
// called from bubbletea command goroutines, so state is mutex-guarded.
type Store struct {
	backend *backend.Client
	tokens  TokenStore
	logger  *zap.SugaredLogger

	mu     sync.RWMutex
	status Status
	user   *domain.User
}

// New creates a session store in the initializing state. A nil logger
// disables logging.
func New(b *backend.Client, tokens TokenStore, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		backend: b,
		tokens:  tokens,
		logger:  logger,
		status:  StatusInitializing,
	}
}

// Initialize resolves the startup session state: no persisted token means
// signed out without any network call; a present token is validated against
// the backend profile endpoint and cleared if rejected. Any failure is
// downgraded to signed-out rather than blocking the app on a broken token.
// Called exactly once, at application start.
func (s *Store) Initialize(ctx context.Context) Status {
	token := s.tokens.Read()
	if token == "" {
		s.set(StatusUnauthenticated, nil)
		return StatusUnauthenticated
	}

	s.backend.SetToken(token)
	user, err := s.backend.Profile(ctx)
	if err != nil {
		s.logger.Debugw("stored token rejected, clearing", "err", err)
		s.tokens.Clear() //nolint:errcheck // token is invalid either way
		s.backend.SetToken("")
		s.set(StatusUnauthenticated, nil)
		return StatusUnauthenticated
	}

	s.set(StatusAuthenticated, user)
	return StatusAuthenticated
}

// Login exchanges credentials for a session. On success the token is
// persisted and the store becomes authenticated.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.set(StatusUnauthenticated, nil)
		return Result{Error: backend.ErrorMessage(err, loginFailedMsg)}
	}
	s.establish(resp)
	return Result{OK: true}
}

// Register creates an account and treats success as an implicit login.
func (s *Store) Register(ctx context.Context, username, email, password string) Result {
	resp, err := s.backend.Register(ctx, username, email, password)
	if err != nil {
		s.set(StatusUnauthenticated, nil)
		return Result{Error: backend.ErrorMessage(err, registerFailedMsg)}
	}
	s.establish(resp)
	return Result{OK: true}
}

// Logout clears the persisted token and the current user. It never fails.
func (s *Store) Logout() {
	s.tokens.Clear() //nolint:errcheck // an unremovable token file is re-validated next start
	s.backend.SetToken("")
	s.set(StatusUnauthenticated, nil)
	s.logger.Debugw("signed out")
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns a copy of the signed-in user, or nil when signed out.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) establish(resp *backend.AuthResponse) {
	if err := s.tokens.Write(resp.Token); err != nil {
		// The in-memory session still works; it just won't survive restart.
		s.logger.Warnw("persisting token failed", "err", err)
	}
	s.backend.SetToken(resp.Token)
	s.set(StatusAuthenticated, &domain.User{
		ID:       resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
	})
	s.logger.Debugw("signed in", "username", resp.Username)
}

func (s *Store) set(status Status, user *domain.User) {
	s.mu.Lock()
	s.status = status
	s.user = user
	s.mu.Unlock()
}
