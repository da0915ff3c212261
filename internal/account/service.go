// Package account registers and authenticates local users.
package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/studyaid/internal/store"
)

var (
	ErrUserExists   = errors.New("username already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrBadPassword  = errors.New("incorrect password")
	ErrInvalidInput = errors.New("username and password required")
	ErrNotAdmin     = errors.New("admin key rejected")
)

// NormalizeUsername trims and lowercases a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Service manages accounts and the data they own.
type Service struct {
	users      store.UserRepo
	library    store.LibraryRepo
	activities store.ActivityRepo
	hasher     Hasher
	adminKey   string
	now        func() time.Time
}

// NewService creates a Service. An empty adminKey disables the admin
// operations.
func NewService(users store.UserRepo, library store.LibraryRepo, activities store.ActivityRepo, hasher Hasher, adminKey string) *Service {
	return &Service{
		users:      users,
		library:    library,
		activities: activities,
		hasher:     hasher,
		adminKey:   adminKey,
		now:        time.Now,
	}
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	name := NormalizeUsername(username)
	if name == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err := s.users.CreateUser(ctx, name, hash, s.now())
	if errors.Is(err, store.ErrUserExists) {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	log.Info().Str("user", name).Msg("account registered")
	return u, nil
}

// Authenticate checks the credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadPassword
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	u, err := s.Authenticate(ctx, username, current)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u.Username, next)
}

// Delete removes the account and all of its data after checking the
// password.
func (s *Service) Delete(ctx context.Context, username, password string) error {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	return s.remove(ctx, u.Username)
}

// ResetPassword sets a new password without the current one.
func (s *Service) ResetPassword(ctx context.Context, adminKey, username, password string) error {
	if err := s.checkAdmin(adminKey); err != nil {
		return err
	}
	u, err := s.lookup(ctx, username)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u.Username, password)
}

// DeleteAccount removes any account and its data.
func (s *Service) DeleteAccount(ctx context.Context, adminKey, username string) error {
	if err := s.checkAdmin(adminKey); err != nil {
		return err
	}
	u, err := s.lookup(ctx, username)
	if err != nil {
		return err
	}
	return s.remove(ctx, u.Username)
}

func (s *Service) lookup(ctx context.Context, username string) (*store.User, error) {
	name := NormalizeUsername(username)
	if name == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.users.GetUser(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *Service) setPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrInvalidInput
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// remove deletes the user's data before the user row.
func (s *Service) remove(ctx context.Context, username string) error {
	if err := s.library.DeleteLibrary(ctx, username); err != nil {
		return fmt.Errorf("delete library: %w", err)
	}
	if err := s.activities.DeleteActivities(ctx, username); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if err := s.users.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	log.Info().Str("user", username).Msg("account deleted")
	return nil
}

func (s *Service) checkAdmin(key string) error {
	if s.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminKey)) != 1 {
		return ErrNotAdmin
	}
	return nil
}
