// Package service contains the business logic, between the HTTP handlers
// and the repositories. Services accept plain values, return domain errors
// from apperror, and know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/avatar"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// MinPasswordLength is the registration floor; existing shorter passwords
// (none in practice) would still verify at login.
const MinPasswordLength = 6

// UserService handles registration, login, and account lifecycle.
type UserService struct {
	users     repository.Users
	accounts  repository.Accounts
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with injected dependencies.
func NewUserService(
	users repository.Users,
	accounts repository.Accounts,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and returns a fresh session token.
//
// Order matters: validation happens before any store access, the duplicate
// check before hashing (no point burning bcrypt time on a doomed request),
// and the token is issued only after the row is persisted.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var fields []apperror.FieldError
	if name == "" {
		fields = append(fields, apperror.FieldError{Msg: "name is required", Param: "name"})
	}
	if !validEmail(email) {
		fields = append(fields, apperror.FieldError{Msg: "a valid email is required", Param: "email"})
	}
	if len(password) < MinPasswordLength {
		fields = append(fields, apperror.FieldError{
			Msg:   fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
			Param: "password",
		})
	}
	if len(fields) > 0 {
		return "", apperror.Invalid(fields...)
	}

	// The message deliberately doesn't say which field collided.
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", apperror.Duplicate()
	case !errors.Is(err, apperror.ErrNotFound):
		return "", apperror.Internal("service/user: checking for existing account", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", apperror.Internal("service/user: hashing password", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       avatar.URL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return "", apperror.Duplicate()
		}
		return "", apperror.Internal("service/user: creating user", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", apperror.Internal("service/user: issuing token for "+user.ID, err)
	}
	return token, nil
}

// Login verifies credentials and returns a fresh session token. Unknown
// email and wrong password produce the identical error so responses don't
// reveal which emails have accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	var fields []apperror.FieldError
	if !validEmail(email) {
		fields = append(fields, apperror.FieldError{Msg: "a valid email is required", Param: "email"})
	}
	if password == "" {
		fields = append(fields, apperror.FieldError{Msg: "password is required", Param: "password"})
	}
	if len(fields) > 0 {
		return "", apperror.Invalid(fields...)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", apperror.Internal("service/user: looking up account", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", apperror.Internal("service/user: issuing token for "+user.ID, err)
	}
	return token, nil
}

// CurrentUser returns the account behind an authenticated request. The
// password hash never leaves the model's json:"-" field, so the handler can
// encode the result directly.
//
// A token whose subject no longer exists (account deleted after issue) is a
// credential problem, not a lookup problem: the caller gets the same 401 as
// for a rejected token.
func (s *UserService) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("no token, authorization denied")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("token is not valid")
		}
		return nil, apperror.Internal("service/user: fetching user "+id, err)
	}
	return user, nil
}

// DeleteAccount removes the caller's profile and user record atomically.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		return apperror.Internal("service/user: deleting account "+id, err)
	}
	s.logger.Info("account deleted", slog.String("userID", id))
	return nil
}

// validEmail checks address syntax. net/mail accepts "Name <a@b>" forms;
// requiring the parsed address to round-trip to the input rules those out.
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
