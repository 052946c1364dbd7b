package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"gatewaysandbox/internal/auth"
	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
)

const msgBadCredentials = "Incorrect email or password"

// SignupInput carries the fields of a self-service registration.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	UserType  string
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Signup(ctx context.Context, in SignupInput) (user *model.User, token string, err error)
}

type authService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens}
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Unauthorized(msgBadCredentials)
		}
		return "", nil, apperrors.Internal(err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apperrors.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.IssueDefault(user.ID)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}
	return token, user, nil
}

// Signup creates a non-privileged user. Admins are only created by the seeder.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.UserType == model.RoleAdmin {
		return nil, "", apperrors.Validation("Invalid user type")
	}

	email := normalizeEmail(in.Email)
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", apperrors.Conflict("Email already in use")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, "", apperrors.Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Password:  hash,
		UserType:  in.UserType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent signup for the same email won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.Conflict("Email already in use")
		}
		return nil, "", apperrors.Internal(err)
	}

	token, err := s.tokens.IssueDefault(user.ID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
