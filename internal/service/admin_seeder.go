package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gatewaysandbox/internal/auth"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
)

// AdminInput describes the administrator account to provision.
type AdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AdminSeeder provisions the administrator account. It is the only way to
// obtain a user with the admin role.
type AdminSeeder struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
}

// NewAdminSeeder creates a new admin seeder.
func NewAdminSeeder(users repository.UserRepository, hasher *auth.PasswordHasher) *AdminSeeder {
	return &AdminSeeder{users: users, hasher: hasher}
}

// Seed creates the admin or, if the email is already registered, resets its
// name, password and role. It reports whether a new row was created.
func (s *AdminSeeder) Seed(ctx context.Context, in AdminInput) (bool, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return false, errors.New("admin email and password are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return false, err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("error checking admin %s: %w", email, err)
	}

	if existing != nil {
		existing.FirstName = in.FirstName
		existing.LastName = in.LastName
		existing.Password = hash
		existing.UserType = model.RoleAdmin
		if err := s.users.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("error updating admin %s: %w", email, err)
		}
		return false, nil
	}

	admin := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Password:  hash,
		UserType:  model.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("error creating admin %s: %w", email, err)
	}
	return true, nil
}
