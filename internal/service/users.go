package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/auth"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns a token for it
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var v validationErrors
	if name == "" {
		v.add("name is required")
	}
	if email == "" {
		v.add("email is required")
	}
	if password == "" {
		v.add("password is required")
	}
	if err := v.err("Missing required fields"); err != nil {
		return nil, err
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "User already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infof("Registered user %s", user.ID)
	return s.issue(user)
}

// Login checks credentials and returns a fresh token. Unknown email and wrong
// password fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	invalid := newError(ErrInvalidCredentials, "Invalid credentials")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup user by email: %w", err)
	}
	if user == nil {
		return nil, invalid
	}
	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, invalid
	}

	return s.issue(user)
}

func (s *Service) issue(user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.CreateToken(user.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}
	return &models.AuthResult{Token: token, User: user.Public()}, nil
}

// Authenticate validates a bearer token and returns the user id it carries.
// No store lookup is made.
func (s *Service) Authenticate(token string) (string, error) {
	if token == "" {
		return "", newError(ErrUnauthorized, "Not authorized, no token")
	}
	payload, err := s.tokens.VerifyToken(token)
	if err != nil {
		return "", wrapError(ErrUnauthorized, "Not authorized, token failed", err)
	}
	return payload.UserID, nil
}

// CurrentUser returns the public projection of the caller
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if user == nil {
		return nil, newError(ErrUnauthorized, "Not authorized, user not found")
	}
	public := user.Public()
	return &public, nil
}
