package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
)

type CardHTTP struct {
	Svc *service.CardService
}

func (h *CardHTTP) StoreCard(c echo.Context) error {
	l := loggerFor(c, "store.card")

	var req transport.StoreCardRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "store_card_error", err)
	}

	token, err := h.Svc.Store(c.Request().Context(), req.UserID, req.CardToken)
	if err != nil {
		return fail(c, l, "store_card_error", err)
	}

	l.Info("store_card_success", "user_id", token.UserID)
	return c.JSON(http.StatusOK, map[string]string{"message": "Credit card information stored successfully"})
}

func (h *CardHTTP) GetCard(c echo.Context) error {
	l := loggerFor(c, "get.card")

	token, err := h.Svc.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return fail(c, l, "get_card_error", err)
	}
	return c.JSON(http.StatusOK, token)
}
