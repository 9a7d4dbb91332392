package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/dailycost/internal/auth"
	"github.com/erazemk/dailycost/internal/model"
)

var errBadCredentials = fmt.Errorf("invalid credentials: %w", model.ErrUnauthorized)

// Authenticate resolves a bearer token into a context carrying its principal.
func (s *Service) Authenticate(ctx context.Context, token string) (context.Context, error) {
	claims, err := s.verifier.Verify(ctx, token)
	if errors.Is(err, auth.ErrInvalidToken) {
		return nil, fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	}
	if err != nil {
		return nil, err
	}
	return auth.WithPrincipal(ctx, claims.Principal()), nil
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, c model.Credentials) (string, error) {
	if err := Validate(c); err != nil {
		return "", err
	}

	user, err := s.store.GetUserByUsername(ctx, c.Username)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("login failed", "username", c.Username, "reason", "unknown user")
		return "", errBadCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)); err != nil {
		s.logger.Warn("login failed", "username", c.Username, "reason", "wrong password")
		return "", errBadCredentials
	}

	token, err := s.verifier.Issue(user.ID, user.Username, s.tokenTTL)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", "user", user.Username)
	return token, nil
}

// Logout revokes the token the caller authenticated with.
func (s *Service) Logout(ctx context.Context) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}
	if p.TokenID == "" {
		return nil
	}

	expires := p.ExpiresAt
	if expires.IsZero() {
		expires = s.clock.Now().Add(s.tokenTTL)
	}
	if err := s.store.RevokeToken(ctx, p.TokenID, expires); err != nil {
		return err
	}

	s.logger.Info("user logged out", "user", p.Username)
	return nil
}

// CurrentUser returns the caller's account.
func (s *Service) CurrentUser(ctx context.Context) (*model.User, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, p.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("user %d gone: %w", p.UserID, model.ErrUnauthorized)
	}
	return user, err
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, c model.PasswordChange) error {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := Validate(c); err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.CurrentPassword)); err != nil {
		return &model.ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"current_password": "Current password is incorrect"},
		}
	}

	hash, err := s.hashPassword(c.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("user changed own password", "user", user.Username)
	return nil
}

// ChangeUsername renames the caller's account. Surrounding whitespace is
// dropped and a name held by another user is a conflict.
func (s *Service) ChangeUsername(ctx context.Context, c model.UsernameChange) (*model.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	c.Username = strings.TrimSpace(c.Username)
	if err := Validate(c); err != nil {
		return nil, err
	}
	if c.Username == user.Username {
		return user, nil
	}

	if err := s.store.UpdateUsername(ctx, user.ID, c.Username); err != nil {
		return nil, err
	}

	s.logger.Info("user changed username", "from", user.Username, "to", c.Username)
	return s.store.GetUser(ctx, user.ID)
}

// CreateUser registers an account. It is not principal-scoped and is meant
// for administrative entry points such as the CLI.
func (s *Service) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" {
		return nil, model.NewValidationError("username required")
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user", user.Username)
	return user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
