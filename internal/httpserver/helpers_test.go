package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo/gormrepo"
	"github.com/Skotchmaster/furniture_shop/internal/revoke"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/tokens"
)

const adminEmail = "admin@example.com"

type testEnv struct {
	E     *echo.Echo
	Store *gormrepo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	store, err := gormrepo.Connect(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	secret := []byte("test-jwt-secret")
	revoked := revoke.Nop{}
	pub := events.Nop{}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:        store,
			Tokens:      tokens.NewIssuer(secret, time.Hour),
			Revoked:     revoked,
			Events:      pub,
			AdminEmails: []string{adminEmail},
		}},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: store, Events: pub}},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: store, Events: pub}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: store, Events: pub}},
		CardHandler:    &CardHTTP{Svc: &service.CardService{Repo: store}},
		Gate:           auth.NewGate(secret, revoked),
		Ready:          store.Ping,
	})

	return &testEnv{E: e, Store: store}
}

// do sends body as JSON. A string body is sent verbatim.
func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type authBody struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (env *testEnv) register(t *testing.T, name, email string) authBody {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
		"phone":    "+1 555 0100",
		"address":  "1 Main St",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[authBody](t, rec)
}

func (env *testEnv) seedProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: price, Category: "chairs"}
	require.NoError(t, env.Store.CreateProduct(context.Background(), p))
	return p
}
