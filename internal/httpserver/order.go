package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func contactOf(r transport.ContactRequest) models.Contact {
	return models.Contact{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "create.order")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "create_order_error", service.ErrUnauthorized)
	}

	var req transport.CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "create_order_error", err)
	}
	// the body may name the user, but only the caller can order for itself
	if req.UserID != "" && req.UserID != userID.String() {
		return fail(c, l, "create_order_error",
			fmt.Errorf("userId %q does not match the authenticated user: %w", req.UserID, service.ErrValidation))
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.Svc.PlaceOrder(ctx, service.PlaceOrderInput{
		UserID:        userID.String(),
		Contact:       contactOf(req.ContactRequest),
		PaymentMethod: req.PaymentMethod,
		Items:         lines,
	})
	if err != nil {
		return fail(c, l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, transport.OrderResponse{Success: true, Order: order})
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "checkout.order")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "checkout_error", service.ErrUnauthorized)
	}

	var req transport.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "checkout_error", err)
	}

	order, err := h.Svc.Checkout(ctx, userID, contactOf(req.ContactRequest), req.PaymentMethod)
	if err != nil {
		return fail(c, l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, transport.OrderResponse{Success: true, Order: order})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	l := loggerFor(c, "list.orders")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "list_orders_error", service.ErrUnauthorized)
	}

	page, size := pageParams(c)
	orders, err := h.Svc.ListOrders(c.Request().Context(), userID, page, size)
	if err != nil {
		return fail(c, l, "list_orders_error", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	l := loggerFor(c, "get.order")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "get_order_error", service.ErrUnauthorized)
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return fail(c, l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}
