package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/validation"
)

// NewErrorHandler translates every error a handler or middleware returns
// into the JSON error envelope. Internal error details are only written to
// the client when exposeInternal is set; they are always logged.
func NewErrorHandler(log *logrus.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := translate(err, c, exposeInternal)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"path":       c.Request().URL.Path,
			}).Error("unhandled error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("failed to write error response")
		}
	}
}

func translate(err error, c echo.Context, exposeInternal bool) *apperrors.HTTPError {
	if msg, fields, ok := validation.Describe(err); ok {
		return &apperrors.HTTPError{StatusCode: http.StatusBadRequest, Message: msg, Data: fields}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.MapErrorToHTTP(err, exposeInternal)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound:
			return apperrors.NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("Can't find %s on this server!", c.Request().URL.Path))
		case he.Code >= http.StatusInternalServerError:
			return apperrors.MapErrorToHTTP(err, exposeInternal)
		default:
			return apperrors.NewHTTPError(he.Code, fmt.Sprint(he.Message))
		}
	}

	return apperrors.MapErrorToHTTP(err, exposeInternal)
}
