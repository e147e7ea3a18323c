package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/catalogworks/catalog/internal/core/domain"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// captureRenderer records the template name and payload instead of executing
// templates, so handler tests stay independent of the HTML.
type captureRenderer struct {
	name string
	data interface{}
}

func (r *captureRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.name = name
	r.data = data
	_, err := io.WriteString(w, name)
	return err
}

type stubCatalogService struct {
	view       *ports.ListingView
	items      []domain.CatalogItem
	itemsErr   error
	categories []domain.Category
	catsErr    error

	addResult *ports.AddItemResult
	addErr    error
	addInput  ports.AddItemInput

	deletedItems []string
	deletedCats  []string
}

func (s *stubCatalogService) Listing(_ context.Context, in ports.ListingInput) *ports.ListingView {
	if s.view != nil {
		return s.view
	}
	return &ports.ListingView{}
}

func (s *stubCatalogService) Items(_ context.Context, _ ports.ItemsFilter) ([]domain.CatalogItem, error) {
	return s.items, s.itemsErr
}

func (s *stubCatalogService) ItemByID(_ context.Context, id string) (*domain.CatalogItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (s *stubCatalogService) Categories(_ context.Context) ([]domain.Category, error) {
	return s.categories, s.catsErr
}

func (s *stubCatalogService) AddItem(_ context.Context, in ports.AddItemInput) (*ports.AddItemResult, error) {
	s.addInput = in
	if s.addErr != nil {
		return nil, s.addErr
	}
	if s.addResult != nil {
		return s.addResult, nil
	}
	return &ports.AddItemResult{Item: &domain.CatalogItem{}, Persisted: true}, nil
}

func (s *stubCatalogService) DeleteItem(_ context.Context, id string) error {
	s.deletedItems = append(s.deletedItems, id)
	return nil
}

func (s *stubCatalogService) AddCategory(_ context.Context, name string) (bool, error) {
	return name != "", nil
}

func (s *stubCatalogService) DeleteCategory(_ context.Context, id string) error {
	s.deletedCats = append(s.deletedCats, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newHandlerContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder, *captureRenderer) {
	e := echo.New()
	e.Validator = NewValidator()
	renderer := &captureRenderer{}
	e.Renderer = renderer
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, renderer
}

func multipartAddItem(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		part, err := mw.CreateFormFile("featureImage", "pic.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/items/add", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

// ---------------------------------------------------------------------------
// Shop
// ---------------------------------------------------------------------------

func TestShopRendersListing(t *testing.T) {
	svc := &stubCatalogService{view: &ports.ListingView{
		Items: []domain.CatalogItem{{ID: "a", Title: "hammer"}},
	}}
	h := NewCatalogHandler(svc, zerolog.Nop())

	c, rec, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/shop", nil))
	if err := h.Shop(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if renderer.name != "shop.html" {
		t.Errorf("expected shop.html rendered, got %q", renderer.name)
	}
	page, ok := renderer.data.(shopPage)
	if !ok {
		t.Fatalf("unexpected payload type %T", renderer.data)
	}
	if page.Message != "" {
		t.Errorf("no empty-listing message expected, got %q", page.Message)
	}
}

func TestShopEmptyListingGetsMessage(t *testing.T) {
	svc := &stubCatalogService{view: &ports.ListingView{}}
	h := NewCatalogHandler(svc, zerolog.Nop())

	c, _, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/shop", nil))
	if err := h.Shop(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := renderer.data.(shopPage)
	if page.Message != "Please try another item / category" {
		t.Errorf("expected empty-listing prompt, got %q", page.Message)
	}
}

func TestHomeRedirectsToShop(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{}, zerolog.Nop())

	c, rec, _ := newHandlerContext(httptest.NewRequest(http.MethodGet, "/", nil))
	if err := h.Home(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/shop" {
		t.Errorf("expected 302 to /shop, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

func TestItemsLookupFailureRendersFallback(t *testing.T) {
	svc := &stubCatalogService{itemsErr: errors.New("boom")}
	h := NewCatalogHandler(svc, zerolog.Nop())

	c, rec, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/items", nil))
	if err := h.Items(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("fallback still renders 200, got %d", rec.Code)
	}
	page := renderer.data.(itemsPage)
	if page.Message != "no results" {
		t.Errorf("expected failure fallback, got %q", page.Message)
	}
}

func TestItemsEmptyCollectionMessage(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{}, zerolog.Nop())

	c, _, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/items", nil))
	if err := h.Items(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := renderer.data.(itemsPage)
	if page.Message != "No Results" {
		t.Errorf("expected empty-collection message, got %q", page.Message)
	}
}

func TestItemsMalformedMinDateRendersFallback(t *testing.T) {
	svc := &stubCatalogService{items: []domain.CatalogItem{{ID: "a"}}}
	h := NewCatalogHandler(svc, zerolog.Nop())

	c, _, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/items?minDate=03/05/2026", nil))
	if err := h.Items(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := renderer.data.(itemsPage)
	if page.Message != "no results" {
		t.Errorf("expected validation fallback, got %q", page.Message)
	}
}

// ---------------------------------------------------------------------------
// AddItem
// ---------------------------------------------------------------------------

func TestAddItemSuccessRedirects(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewCatalogHandler(svc, zerolog.Nop())

	req := multipartAddItem(t, map[string]string{
		"title":     "hammer",
		"body":      "a hammer",
		"category":  "tools",
		"published": "on",
	}, true)
	c, rec, _ := newHandlerContext(req)

	if err := h.AddItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/items" {
		t.Errorf("expected 302 to /items, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if svc.addInput.Title != "hammer" || !svc.addInput.Published {
		t.Errorf("form fields not forwarded: %+v", svc.addInput)
	}
	if svc.addInput.File.Filename != "pic.png" {
		t.Errorf("expected feature image forwarded, got %q", svc.addInput.File.Filename)
	}
}

func TestAddItemUploadFailureSurfacesRawError(t *testing.T) {
	svc := &stubCatalogService{addErr: errors.New("asset store returned 500: disk full")}
	h := NewCatalogHandler(svc, zerolog.Nop())

	req := multipartAddItem(t, map[string]string{"title": "hammer"}, true)
	c, rec, _ := newHandlerContext(req)

	if err := h.AddItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "asset store returned 500: disk full" {
		t.Errorf("expected raw error body, got %q", body)
	}
}

func TestAddItemMissingFileRejected(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{}, zerolog.Nop())

	req := multipartAddItem(t, map[string]string{"title": "hammer"}, false)
	c, rec, _ := newHandlerContext(req)

	if err := h.AddItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing feature image, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// ItemByID
// ---------------------------------------------------------------------------

func TestItemByIDLookupFailureStaysOK(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/item/nope", nil)
	c, rec, _ := newHandlerContext(req)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := h.ItemByID(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("lookup failure must not change the status, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("expected error carried in the body, got %q", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Deletes and categories
// ---------------------------------------------------------------------------

func TestDeleteItemAlwaysRedirects(t *testing.T) {
	svc := &stubCatalogService{}
	h := NewCatalogHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/items/delete/abc", nil)
	c, rec, _ := newHandlerContext(req)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	if err := h.DeleteItem(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/items" {
		t.Errorf("expected 302 to /items, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if len(svc.deletedItems) != 1 || svc.deletedItems[0] != "abc" {
		t.Errorf("expected delete forwarded, got %v", svc.deletedItems)
	}
}

func TestCategoriesLookupFailureRendersFallback(t *testing.T) {
	svc := &stubCatalogService{catsErr: errors.New("boom")}
	h := NewCatalogHandler(svc, zerolog.Nop())

	c, rec, renderer := newHandlerContext(httptest.NewRequest(http.MethodGet, "/categories", nil))
	if err := h.Categories(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("fallback still renders 200, got %d", rec.Code)
	}
	page := renderer.data.(categoriesPage)
	if page.Message != "no results" {
		t.Errorf("expected failure fallback, got %q", page.Message)
	}
}

func TestAddCategoryRedirects(t *testing.T) {
	h := NewCatalogHandler(&stubCatalogService{}, zerolog.Nop())

	form := strings.NewReader("category=tools")
	req := httptest.NewRequest(http.MethodPost, "/categories/add", form)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c, rec, _ := newHandlerContext(req)

	if err := h.AddCategory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/categories" {
		t.Errorf("expected 302 to /categories, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}
