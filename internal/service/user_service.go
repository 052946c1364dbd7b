package service

import (
	"context"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
)

// UserList is a counted page of users.
type UserList struct {
	Count int          `json:"count"`
	Rows  []model.User `json:"rows"`
}

// UserService exposes user queries for administrators.
type UserService interface {
	ListUsers(ctx context.Context) (*UserList, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// ListUsers returns every non-admin user.
func (s *userService) ListUsers(ctx context.Context) (*UserList, error) {
	users, err := s.repo.ListNonAdmin(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserList{Count: len(users), Rows: users}, nil
}
