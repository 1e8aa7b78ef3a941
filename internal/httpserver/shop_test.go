package httpserver

import (
	"math"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/furniture_shop/internal/transport"
	"github.com/Skotchmaster/furniture_shop/internal/util"
)

type cartLineBody struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Product   *struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"product"`
}

type orderBody struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"totalPrice"`
	Items      []struct {
		ProductID string  `json:"productId"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Quantity  int     `json:"quantity"`
	} `json:"items"`
}

type orderResponse struct {
	Success bool      `json:"success"`
	Order   orderBody `json:"order"`
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/health/live", "/health/ready"} {
		rec := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestShoppingFlow(t *testing.T) {
	env := newTestEnv(t)
	table := env.seedProduct(t, "Oak table", 199.99)
	chair := env.seedProduct(t, "Chair", 45.5)

	reg := env.register(t, "Ann", "ann@example.com")
	require.NotEmpty(t, reg.Token)

	rec := env.do(t, http.MethodPost, "/api/users/login", map[string]string{
		"email": "ANN@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[authBody](t, rec)
	assert.Equal(t, reg.UserID, login.UserID)
	token := login.Token

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": table.ID.String()}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[cartLineBody](t, rec).Quantity, "quantity defaults to 1")

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": table.ID.String(), "quantity": 2}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	line := decode[cartLineBody](t, rec)
	assert.Equal(t, 3, line.Quantity)
	require.NotNil(t, line.Product)
	assert.Equal(t, "Oak table", line.Product.Name)

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": chair.ID.String(), "quantity": 2}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/cart/"+line.ID, map[string]any{"quantity": 1}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[cartLineBody](t, rec).Quantity)

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]cartLineBody](t, rec), 2)

	rec = env.do(t, http.MethodPost, "/api/orders/checkout", map[string]any{"paymentMethod": "card"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	checkout := decode[orderResponse](t, rec)
	assert.True(t, checkout.Success)
	assert.Equal(t, 290.99, checkout.Order.TotalPrice)
	assert.Equal(t, "Pending", checkout.Order.Status)
	assert.Equal(t, "Ann", checkout.Order.Name)

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]cartLineBody](t, rec))

	rec = env.do(t, http.MethodPost, "/api/orders", map[string]any{
		"userId":        reg.UserID,
		"name":          "Ann",
		"address":       "2 Side St",
		"paymentMethod": "cash",
		"items": []map[string]any{
			{"productId": chair.ID.String(), "quantity": 4, "name": "ignored", "price": 0.01},
		},
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[orderResponse](t, rec)
	assert.Equal(t, 182.0, placed.Order.TotalPrice)
	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, "Chair", placed.Order.Items[0].Name, "catalog name wins over the client one")
	assert.Equal(t, 45.5, placed.Order.Items[0].Price)

	rec = env.do(t, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]orderBody](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/orders/"+placed.Order.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, placed.Order.ID, decode[orderBody](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCart_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart"},
		{http.MethodDelete, "/api/cart"},
		{http.MethodPut, "/api/cart/" + uuid.NewString()},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/users/me"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "Bo", "bo@example.com")

	rec := env.do(t, http.MethodPost, "/api/users/logout", nil, reg.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_SchemaErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"name":     "Ann",
		"email":    "not-an-email",
		"password": "123",
		"phone":    "call me",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[transport.ErrorResponse](t, rec)
	fields := make([]string, 0, len(body.Errors))
	for _, fe := range body.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "phone"}, fields)
}

func TestRegister_UnknownFieldRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/register",
		`{"name":"Ann","email":"ann@example.com","password":"secret1","phone":"+1 555 0100","isAdmin":true}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "isAdmin")
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@example.com")

	rec := env.do(t, http.MethodPost, "/api/users/register", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1", "phone": "+1 555 0100",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[transport.ErrorResponse](t, rec).Message)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@example.com")

	rec := env.do(t, http.MethodPost, "/api/users/login", map[string]string{
		"email": "ann@example.com", "password": "wrong-one",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password", decode[transport.ErrorResponse](t, rec).Message)
}

func TestCreateOrder_Rejections(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Bench", 90)
	reg := env.register(t, "Ann", "ann@example.com")

	tests := []struct {
		name    string
		body    map[string]any
		wantMsg string
	}{
		{
			name: "other user id",
			body: map[string]any{
				"userId": uuid.NewString(),
				"items":  []map[string]any{{"productId": p.ID.String(), "quantity": 1}},
			},
			wantMsg: "does not match",
		},
		{
			name:    "no items",
			body:    map[string]any{"items": []map[string]any{}},
			wantMsg: "invalid body",
		},
		{
			name: "malformed product id",
			body: map[string]any{
				"items": []map[string]any{{"productId": "abc-123", "quantity": 1}},
			},
			wantMsg: "abc-123",
		},
		{
			name: "quantity over limit",
			body: map[string]any{
				"items": []map[string]any{{"productId": p.ID.String(), "quantity": math.MaxInt}},
			},
			wantMsg: "invalid body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/orders", tt.body, reg.Token)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[transport.ErrorResponse](t, rec).Message, tt.wantMsg)
		})
	}

	rec := env.do(t, http.MethodGet, "/api/orders", nil, reg.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]orderBody](t, rec))
}

func TestCart_QuantityLimit(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Stool", 15)
	reg := env.register(t, "Ann", "ann@example.com")

	rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID.String(), "quantity": math.MaxInt}, reg.Token)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	body := decode[transport.ErrorResponse](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "quantity", body.Errors[0].Field)

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID.String(), "quantity": 1000}, reg.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	line := decode[cartLineBody](t, rec)

	rec = env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID.String(), "quantity": 1}, reg.Token)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decode[transport.ErrorResponse](t, rec).Message, "cannot exceed 1000")

	rec = env.do(t, http.MethodPut, "/api/cart/"+line.ID, map[string]any{"quantity": 1001}, reg.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/cart", nil, reg.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decode[[]cartLineBody](t, rec)
	require.Len(t, lines, 1)
	assert.Equal(t, 1000, lines[0].Quantity)
}

func TestProducts_PageOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "Chair", 40)
	reg := env.register(t, "Ann", "ann@example.com")

	rec := env.do(t, http.MethodGet, "/api/products?page=922337203685477581&size=20", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[struct {
		Data []map[string]any `json:"data"`
		Meta util.PageMeta    `json:"meta"`
	}](t, rec)
	assert.Empty(t, list.Data)
	assert.Equal(t, util.MaxPage, list.Meta.Page)
	assert.EqualValues(t, 1, list.Meta.Total)
	assert.False(t, list.Meta.HasNext)

	rec = env.do(t, http.MethodGet, "/api/orders?page=922337203685477581", nil, reg.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[[]orderBody](t, rec))
}

func TestCart_OtherUsersItem(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Lamp", 20)
	owner := env.register(t, "Owner", "owner@example.com")
	stranger := env.register(t, "Stranger", "stranger@example.com")

	rec := env.do(t, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID.String(), "quantity": 2}, owner.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	line := decode[cartLineBody](t, rec)

	rec = env.do(t, http.MethodDelete, "/api/cart/"+line.ID, nil, stranger.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/cart/"+line.ID, nil, owner.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProducts_AdminOnlyWrites(t *testing.T) {
	env := newTestEnv(t)
	user := env.register(t, "User", "user@example.com")
	admin := env.register(t, "Admin", adminEmail)

	body := map[string]any{"name": "Sofa", "price": 700, "category": "sofas", "trending": true}

	rec := env.do(t, http.MethodPost, "/api/products", body, user.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/products", body, admin.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = env.do(t, http.MethodPatch, "/api/products/"+id, map[string]any{"price": 650.5}, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 650.5, decode[map[string]any](t, rec)["price"])

	rec = env.do(t, http.MethodGet, "/api/products?trending=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}](t, rec)
	assert.EqualValues(t, 1, list.Meta.Total)
	assert.False(t, list.Meta.HasNext)
	require.Len(t, list.Data, 1)

	rec = env.do(t, http.MethodGet, "/api/products/search?q=sof", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sofa")

	rec = env.do(t, http.MethodDelete, "/api/products/"+id, nil, admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreditCards(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "Ann", "ann@example.com")

	rec := env.do(t, http.MethodGet, "/api/creditcards/"+reg.UserID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, tok := range []string{"tok_1", "tok_2"} {
		rec = env.do(t, http.MethodPost, "/api/creditcards/store", map[string]string{"userId": reg.UserID, "cardToken": tok}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/creditcards/"+reg.UserID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok_2", decode[map[string]any](t, rec)["cardToken"])

	rec = env.do(t, http.MethodPost, "/api/creditcards/store", map[string]string{"userId": "nope", "cardToken": "tok"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/creditcards/store", map[string]string{"userId": reg.UserID}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
