package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gatewaysandbox/internal/auth"
	apperrors "gatewaysandbox/internal/errors"
)

const statusSuccess = "success"

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Token   string      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, SuccessResponse{Status: statusSuccess, Data: data})
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return c.Validate(req)
}

// pathID parses the :id parameter. Anything that is not a positive integer
// cannot name a record, so it is reported as not found.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound("No record found with that ID")
	}
	return uint(id), nil
}

func currentIdentity(c echo.Context) (*auth.Identity, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, apperrors.Unauthorized("You are not logged in! Please log in to get access.")
	}
	return id, nil
}

// Index answers the API root.
func Index(c echo.Context) error {
	return c.String(http.StatusOK, "Hello, World!")
}
