package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"toystore/internal/auth"
	"toystore/internal/domain"
	"toystore/internal/repository"
)

// ErrInvalidCredentials indicates that provided login credentials are
// incorrect. Unknown username and wrong password both map here so callers
// cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService describes user credential operations.
type UserService interface {
	// Login verifies the credentials and returns a signed token plus the
	// user's role.
	Login(ctx context.Context, username, password string) (token, role string, err error)
	// EnsureUser creates the user with a bcrypt-hashed password unless the
	// username already exists. Used by the startup admin seed.
	EnsureUser(ctx context.Context, username, password, role string) error
}

type userService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenService) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
	}
}

func (s *userService) Login(ctx context.Context, username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, user.Role, nil
}

func (s *userService) EnsureUser(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
