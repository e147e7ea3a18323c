package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/catalogworks/catalog/internal/api/metrics"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// emptyListingMessage is shown when the listing resolves zero items; the
// listing template itself is still rendered, never an error page.
const emptyListingMessage = "Please try another item / category"

// CatalogHandler serves the catalog pages and mutations.
type CatalogHandler struct {
	service ports.CatalogService
	logger  zerolog.Logger
}

func NewCatalogHandler(service ports.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

// Home handles GET /.
func (h *CatalogHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/shop")
}

// About handles GET /about.
func (h *CatalogHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", nil)
}

// Shop handles GET /shop: the aggregated listing, optionally filtered by
// category.
func (h *CatalogHandler) Shop(c echo.Context) error {
	view := h.service.Listing(c.Request().Context(), ports.ListingInput{
		Category: c.QueryParam("category"),
	})
	countListingFallbacks(view)

	page := shopPage{View: view}
	if len(view.Items) == 0 {
		page.Message = emptyListingMessage
	}
	return c.Render(http.StatusOK, "shop.html", page)
}

// ShopItem handles GET /shop/:id: the listing plus one item by identifier.
func (h *CatalogHandler) ShopItem(c echo.Context) error {
	view := h.service.Listing(c.Request().Context(), ports.ListingInput{
		Category: c.QueryParam("category"),
		ItemID:   c.Param("id"),
	})
	countListingFallbacks(view)
	return c.Render(http.StatusOK, "shop.html", shopPage{View: view})
}

// Items handles GET /items: the editor's item collection, filtered by
// category or by minimum publish date. Lookup failures render the same
// template with a fallback message.
func (h *CatalogHandler) Items(c echo.Context) error {
	var q itemsQuery
	if err := c.Bind(&q); err != nil {
		return c.Render(http.StatusOK, "items.html", itemsPage{Message: "no results"})
	}
	if err := c.Validate(&q); err != nil {
		return c.Render(http.StatusOK, "items.html", itemsPage{Message: "no results"})
	}

	items, err := h.service.Items(c.Request().Context(), ports.ItemsFilter{
		Category: q.Category,
		MinDate:  q.MinDate,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("items lookup failed")
		metrics.ListingFallbacksTotal.WithLabelValues("items").Inc()
		return c.Render(http.StatusOK, "items.html", itemsPage{Message: "no results"})
	}
	if len(items) == 0 {
		return c.Render(http.StatusOK, "items.html", itemsPage{Message: "No Results"})
	}
	return c.Render(http.StatusOK, "items.html", itemsPage{Items: items})
}

// AddItemForm handles GET /items/add. A failed category lookup renders the
// form with no options rather than failing.
func (h *CatalogHandler) AddItemForm(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("category lookup for add-item form failed")
		categories = nil
	}
	return c.Render(http.StatusOK, "addItem.html", addItemPage{Categories: categories})
}

// AddItem handles POST /items/add: the streaming upload pipeline. On
// success the client is redirected to the listing; an upload failure
// surfaces the raw error body, untemplated.
func (h *CatalogHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("featureImage")
	if err != nil {
		return c.String(http.StatusBadRequest, "feature image is required")
	}
	src, err := fh.Open()
	if err != nil {
		return c.String(http.StatusBadRequest, "feature image is unreadable")
	}
	defer src.Close()

	result, err := h.service.AddItem(c.Request().Context(), ports.AddItemInput{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Published: req.published(),
		File: ports.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Body:        src,
		},
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return c.String(http.StatusBadGateway, err.Error())
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	if !result.Persisted {
		h.logger.Warn().Msg("add item completed without persisting")
	}
	return c.Redirect(http.StatusFound, "/items")
}

// ItemByID handles GET /item/:id: the raw item, no template. Lookup
// failures are sent as-is in the body, not as an HTTP error status.
func (h *CatalogHandler) ItemByID(c echo.Context) error {
	item, err := h.service.ItemByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles GET /items/delete/:id. Failures are logged and
// swallowed; the redirect proceeds regardless.
func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	if err := h.service.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error().Err(err).Str("item_id", c.Param("id")).Msg("delete item failed")
	}
	return c.Redirect(http.StatusFound, "/items")
}

// Categories handles GET /categories.
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("category lookup failed")
		metrics.ListingFallbacksTotal.WithLabelValues("categories").Inc()
		return c.Render(http.StatusOK, "categories.html", categoriesPage{Message: "no results"})
	}
	if len(categories) == 0 {
		return c.Render(http.StatusOK, "categories.html", categoriesPage{Message: "No Results"})
	}
	return c.Render(http.StatusOK, "categories.html", categoriesPage{Categories: categories})
}

// AddCategoryForm handles GET /categories/add.
func (h *CatalogHandler) AddCategoryForm(c echo.Context) error {
	return c.Render(http.StatusOK, "addCategory.html", nil)
}

// AddCategory handles POST /categories/add. An empty name is a silent
// no-op; either way the client is redirected to the category list.
func (h *CatalogHandler) AddCategory(c echo.Context) error {
	var req addCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	if _, err := h.service.AddCategory(c.Request().Context(), req.Category); err != nil {
		h.logger.Error().Err(err).Msg("add category failed")
	}
	return c.Redirect(http.StatusFound, "/categories")
}

// DeleteCategory handles GET /categories/delete/:id with the same
// silent-failure semantics as DeleteItem.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		h.logger.Error().Err(err).Str("category_id", c.Param("id")).Msg("delete category failed")
	}
	return c.Redirect(http.StatusFound, "/categories")
}

// countListingFallbacks records which aggregated lookups degraded.
func countListingFallbacks(view *ports.ListingView) {
	if view.ItemsMessage != "" {
		metrics.ListingFallbacksTotal.WithLabelValues("items").Inc()
	}
	if view.CategoriesMessage != "" {
		metrics.ListingFallbacksTotal.WithLabelValues("categories").Inc()
	}
}
