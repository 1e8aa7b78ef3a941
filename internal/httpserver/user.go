package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func authResponse(message string, res *service.AuthResult) transport.AuthResponse {
	return transport.AuthResponse{
		Message:   message,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
		UserID:    res.User.ID.String(),
		User: transport.UserView{
			ID:    res.User.ID.String(),
			Name:  res.User.Name,
			Email: res.User.Email,
		},
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "user.register")

	var req transport.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "register_error", err)
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return fail(c, l, "register_error", err)
	}

	l.Info("register_success", "user_id", res.User.ID)
	return c.JSON(http.StatusCreated, authResponse("User registered successfully", res))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "user.login")

	var req transport.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, l, "login_error", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, authResponse("Login successful", res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	l := loggerFor(c, "user.logout")

	if err := h.Svc.Logout(c.Request().Context(), auth.Claims(c)); err != nil {
		return fail(c, l, "logout_error", err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	l := loggerFor(c, "user.me")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "me_error", service.ErrUnauthorized)
	}
	user, err := h.Svc.Me(c.Request().Context(), userID)
	if err != nil {
		return fail(c, l, "me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}
