package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

// SessionDuration is how long a session stays valid after login.
const SessionDuration = 24 * time.Hour

// SessionService checks administrator credentials and manages the single
// stored session. A session moves from absent to valid on login and back to
// absent on logout, on expiry, or when its stored form cannot be read.
type SessionService struct {
	kv       driven.KVStore
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string

	mu sync.Mutex
}

// NewSessionService creates a SessionService.
func NewSessionService(kv driven.KVStore, logger *slog.Logger) *SessionService {
	return &SessionService{
		kv:       kv,
		logger:   logger,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login checks the pair against the stored users and, on a match, replaces
// the stored session with a fresh one. It returns model.ErrInvalidCredentials
// when nothing matches.
func (s *SessionService) Login(ctx context.Context, username, password string) (*model.Session, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, u := range users {
		if u.Username == username && passwordMatches(u, password) {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Warn("login rejected", "username", username)
		return nil, model.ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := model.Session{
		Username:  users[idx].Username,
		LoginTime: now,
		ExpiresAt: now.Add(SessionDuration),
		Token:     s.newToken(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveDocument(ctx, s.kv, driven.KeySession, session); err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "username", session.Username, "expires_at", session.ExpiresAt)
	return &session, nil
}

// Logout removes the stored session. It is safe to call when no session exists.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

// IsAuthenticated reports whether a valid session is stored. Expired or
// malformed sessions are removed as a side effect.
func (s *SessionService) IsAuthenticated(ctx context.Context) bool {
	return s.current(ctx) != nil
}

// CurrentUser returns the username of the valid session, or "" if there is none.
func (s *SessionService) CurrentUser(ctx context.Context) string {
	session := s.current(ctx)
	if session == nil {
		return ""
	}
	return session.Username
}

// Authenticate returns the stored session when it is valid and was issued
// with token. The token comparison runs in constant time.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*model.Session, bool) {
	if token == "" {
		return nil, false
	}
	session := s.current(ctx)
	if session == nil {
		return nil, false
	}
	if subtle.ConstantTimeCompare([]byte(session.Token), []byte(token)) != 1 {
		return nil, false
	}
	return session, true
}

// current loads the stored session and normalizes invalid states to absent.
func (s *SessionService) current(ctx context.Context) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var session model.Session
	found, err := loadDocument(ctx, s.kv, driven.KeySession, &session)
	switch {
	case errors.Is(err, errCorruptDocument):
		s.logger.Warn("discarding malformed session", "error", err)
		s.clearQuietly(ctx)
		return nil
	case err != nil:
		s.logger.Error("failed to read session", "error", err)
		return nil
	case !found:
		return nil
	}

	if !session.Valid() {
		s.logger.Warn("discarding incomplete session")
		s.clearQuietly(ctx)
		return nil
	}

	if session.Expired(s.now()) {
		s.logger.Info("session expired", "username", session.Username, "expired_at", session.ExpiresAt)
		s.clearQuietly(ctx)
		return nil
	}

	return &session
}

func (s *SessionService) clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, driven.KeySession); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) clearQuietly(ctx context.Context) {
	if err := s.clear(ctx); err != nil {
		s.logger.Error("failed to remove session", "error", err)
	}
}
