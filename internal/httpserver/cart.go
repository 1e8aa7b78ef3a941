package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/middleware/auth"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "add.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "add_cart_error", service.ErrUnauthorized)
	}

	var req transport.AddToCartRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "add_cart_error", err)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.Svc.AddItem(ctx, userID, req.ProductID, quantity)
	if err != nil {
		return fail(c, l, "add_cart_error", err)
	}

	l.Info("add_cart_success", "item_id", line.ID, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	l := loggerFor(c, "get.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "get_cart_error", service.ErrUnauthorized)
	}

	lines, err := h.Svc.ListItems(c.Request().Context(), userID)
	if err != nil {
		return fail(c, l, "get_cart_error", err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "update.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "update_cart_error", service.ErrUnauthorized)
	}

	var req transport.UpdateCartRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "update_cart_error", err)
	}

	line, err := h.Svc.UpdateItem(ctx, c.Param("id"), userID, req.Quantity)
	if err != nil {
		return fail(c, l, "update_cart_error", err)
	}

	l.Info("update_cart_success", "item_id", line.ID)
	return c.JSON(http.StatusOK, line)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	l := loggerFor(c, "remove.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "remove_cart_error", service.ErrUnauthorized)
	}

	if err := h.Svc.RemoveItem(c.Request().Context(), c.Param("id"), userID); err != nil {
		return fail(c, l, "remove_cart_error", err)
	}

	l.Info("remove_cart_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	l := loggerFor(c, "clear.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, l, "clear_cart_error", service.ErrUnauthorized)
	}

	if err := h.Svc.ClearCart(c.Request().Context(), userID); err != nil {
		return fail(c, l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "Cart cleared"})
}
