package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"gatewaysandbox/internal/auth"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/service"
	"gatewaysandbox/internal/validation"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	var user *model.User
	if u := args.Get(1); u != nil {
		user = u.(*model.User)
	}
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, string, error) {
	args := m.Called(ctx, in)
	var user *model.User
	if u := args.Get(0); u != nil {
		user = u.(*model.User)
	}
	return user, args.String(1), args.Error(2)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) (*service.UserList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserList), args.Error(1)
}

// MockListingService is a mock implementation of service.ListingService.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Kind() model.ListingKind {
	return model.KindBusiness
}

func (m *MockListingService) Create(ctx context.Context, ownerID uint, listing *model.Listing) (*model.Listing, error) {
	args := m.Called(ctx, ownerID, listing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}

func (m *MockListingService) GetByID(ctx context.Context, id uint) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, id, ownerID uint, patch model.ListingPatch) (*model.Listing, error) {
	args := m.Called(ctx, id, ownerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) Delete(ctx context.Context, id, ownerID uint) (*service.DeleteResult, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteResult), args.Error(1)
}

// newContext builds an echo context for a JSON request. A non-nil identity
// is attached as if the auth middleware had run.
func newContext(method, target, body string, identity *auth.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(auth.IdentityKey, identity)
	}
	return c, rec
}
