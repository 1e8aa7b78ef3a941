package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/logging"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

func loggerFor(c echo.Context, handler string) *slog.Logger {
	return logging.FromContext(c.Request().Context()).With("handler", handler)
}

// detail strips the trailing sentinel from a wrapped service error.
func detail(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

// fail maps err onto an HTTP response and logs it under event. Client errors
// are logged at warn, everything else at error with a generic body.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	var se *schemaError
	switch {
	case errors.As(err, &se):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Message: "invalid body", Errors: se.fields})
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "user exists", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		l.Warn(event, "status", http.StatusBadRequest, "reason", "bad credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password")
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, detail(err, service.ErrValidation))
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, detail(err, service.ErrNotFound))
	}
	l.Error(event, "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
