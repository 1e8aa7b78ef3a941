package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/Skotchmaster/furniture_shop/internal/service"
	"github.com/Skotchmaster/furniture_shop/internal/transport"
	"github.com/Skotchmaster/furniture_shop/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (page, size int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size = util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return page, size
}

func paged(items []models.Product, total int64, page, size int) map[string]any {
	if items == nil {
		items = []models.Product{}
	}
	return map[string]any{
		"data": items,
		"meta": util.Meta(page, size, total),
	}
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "product.get_products")

	page, size := pageParams(c)
	filter := repo.ProductFilter{Category: c.QueryParam("category")}
	if raw := c.QueryParam("trending"); raw != "" {
		trending, err := strconv.ParseBool(raw)
		if err != nil {
			l.Warn("get_products_error", "status", 400, "reason", "trending is not a bool", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "trending must be true or false")
		}
		filter.Trending = &trending
	}

	total, items, err := h.Svc.List(ctx, filter, page, size)
	if err != nil {
		return fail(c, l, "get_products_error", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, paged(items, total, page, size))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "product.search")

	page, size := pageParams(c)
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(c, l, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, paged(items, total, page, size))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	l := loggerFor(c, "product.get_product")

	product, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "product.create")

	var req transport.CreateProductRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "product_create_error", err)
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Trending:    req.Trending,
	}
	if err := h.Svc.Create(ctx, p); err != nil {
		return fail(c, l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := loggerFor(c, "product.patch")

	var req transport.PatchProductRequest
	if err := bindJSON(c, &req); err != nil {
		return fail(c, l, "product_patch_error", err)
	}

	p, err := h.Svc.Patch(ctx, c.Param("id"), service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Trending:    req.Trending,
	})
	if err != nil {
		return fail(c, l, "product_patch_error", err)
	}

	l.Info("patch_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	l := loggerFor(c, "product.delete")

	id := c.Param("id")
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return fail(c, l, "product_delete_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted"})
}
