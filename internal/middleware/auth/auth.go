package auth

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/logging"
	"github.com/Skotchmaster/furniture_shop/internal/revoke"
	"github.com/Skotchmaster/furniture_shop/internal/tokens"
)

const (
	CtxToken  = "token"
	CtxClaims = "claims"
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Gate checks the bearer token of a request and puts the caller identity
// into the echo context.
type Gate struct {
	jwt     echo.MiddlewareFunc
	revoked revoke.Store
}

func NewGate(secret []byte, revoked revoke.Store) *Gate {
	if revoked == nil {
		revoked = revoke.Nop{}
	}
	return &Gate{
		revoked: revoked,
		jwt: echojwt.WithConfig(echojwt.Config{
			ContextKey:  CtxToken,
			TokenLookup: "header:Authorization:Bearer ",
			ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
				return tokens.AccessClaimsFromToken(raw, secret)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				logging.FromContext(c.Request().Context()).Warn("auth_error", "status", 401, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			},
		}),
	}
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.jwt(g.resolve(next))
}

func (g *Gate) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		claims, ok := c.Get(CtxToken).(*tokens.AccessClaims)
		if !ok || claims.Subject == "" {
			l.Warn("auth_error", "status", 401, "reason", "token has no subject")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}
		if _, err := claims.UserID(); err != nil {
			l.Warn("auth_error", "status", 401, "reason", "malformed subject")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}

		if claims.ID != "" {
			revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
			if err != nil {
				l.Error("auth_revocation_check_error", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}
			if revoked {
				l.Warn("auth_error", "status", 401, "reason", "token revoked")
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		return next(c)
	}
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
			}
			return next(c)
		}
	}
}

// UserID returns the caller resolved by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, bool) {
	s, ok := c.Get(CtxUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func Claims(c echo.Context) *tokens.AccessClaims {
	claims, _ := c.Get(CtxClaims).(*tokens.AccessClaims)
	return claims
}
