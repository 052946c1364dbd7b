package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gatewaysandbox/internal/service"
)

// UserHandler serves the admin user listing.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers returns {count, rows} of non-admin users.
func (h *UserHandler) ListUsers(c echo.Context) error {
	list, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}
