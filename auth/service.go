// Package auth verifies credentials and turns bearer tokens back into users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"foodiehub/apperr"
	"foodiehub/models"
	"foodiehub/store"
)

// Service authenticates users against the credential store.
type Service struct {
	users  store.Users
	tokens *TokenManager
}

func NewService(users store.Users, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Authenticate checks email and password and issues a token. An unknown
// email and a wrong password fail with the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		// Spend the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return "", models.User{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, apperr.ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", models.User{}, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// Resolve verifies token and loads the current record of its user.
func (s *Service) Resolve(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("foodiehub-dummy-password"), bcrypt.DefaultCost)
	return hash
})
