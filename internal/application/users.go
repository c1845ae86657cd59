package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/agendahub/internal/domain/model"
	"github.com/ericfisherdev/agendahub/internal/domain/port/driven"
)

// passwordHashCost is the bcrypt work factor for stored credentials.
var passwordHashCost = bcrypt.DefaultCost

// SetPassword stores a new password hash for username, creating an admin
// account if the username is unknown.
func (s *SessionService) SetPassword(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password must not be empty")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range users {
		if users[i].Username == username {
			users[i].PasswordHash = hash
			users[i].Password = ""
			replaced = true
		}
	}
	if !replaced {
		users = append(users, model.User{Username: username, PasswordHash: hash, Role: model.RoleAdmin})
	}

	if err := saveDocument(ctx, s.kv, driven.KeyUsers, users); err != nil {
		return err
	}

	s.logger.Info("password set", "username", username, "created", !replaced)
	return nil
}

// loadUsers reads the credential list. An absent or unreadable list has no
// users, which makes every login fail; only storage failures are returned.
func (s *SessionService) loadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	_, err := loadDocument(ctx, s.kv, driven.KeyUsers, &users)
	if errors.Is(err, errCorruptDocument) {
		s.logger.Error("failed to decode users", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

// passwordMatches compares password against the stored hash, or against the
// legacy plaintext field for credentials that predate hashing.
func passwordMatches(u model.User, password string) bool {
	if u.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
	}
	if u.Password != "" {
		return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
	}
	return false
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Seed writes first-run defaults: the default administrator when no user list
// exists, and an empty agenda collection when none exists. Existing values are
// never touched.
func Seed(ctx context.Context, kv driven.KVStore, logger *slog.Logger) error {
	_, hasUsers, err := kv.Get(ctx, driven.KeyUsers)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if !hasUsers {
		hash, err := hashPassword(model.DefaultAdminPassword)
		if err != nil {
			return err
		}
		admin := model.User{
			Username:     model.DefaultAdminUsername,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
		}
		if err := saveDocument(ctx, kv, driven.KeyUsers, []model.User{admin}); err != nil {
			return err
		}
		logger.Warn("seeded default administrator; change its password with the passwd command",
			"username", admin.Username)
	}

	_, hasAgendas, err := kv.Get(ctx, driven.KeyAgendas)
	if err != nil {
		return fmt.Errorf("check agendas: %w", err)
	}
	if !hasAgendas {
		if err := saveDocument(ctx, kv, driven.KeyAgendas, []model.Agenda{}); err != nil {
			return err
		}
		logger.Info("initialized empty agenda collection")
	}

	return nil
}
