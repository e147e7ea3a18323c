package ports

import (
	"context"
	"io"

	"github.com/catalogworks/catalog/internal/core/domain"
)

// ListingInput selects what the listing view shows.
type ListingInput struct {
	// Category filters the item collection when non-empty.
	Category string
	// ItemID, when non-empty, additionally resolves a single featured item.
	ItemID string
}

// ListingView is the per-request render payload produced by the view
// aggregator. The fallback messages are set instead of propagating lookup
// errors; each lookup degrades independently.
type ListingView struct {
	Items             []domain.CatalogItem
	Item              *domain.CatalogItem
	Categories        []domain.Category
	ItemsMessage      string
	CategoriesMessage string
}

// ItemsFilter selects the item collection for the /items page. At most one
// of Category and MinDate is honoured; Category wins when both are set.
type ItemsFilter struct {
	Category string
	MinDate  string // calendar date, 2006-01-02
}

// UploadFile is one multipart file already buffered by the decoder.
type UploadFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AddItemInput carries the add-item form fields plus the feature image.
type AddItemInput struct {
	Title     string
	Body      string
	Category  string
	Published bool
	File      UploadFile
}

// AddItemResult reports the outcome of the upload pipeline. Persisted is
// false when the item was silently skipped (empty title).
type AddItemResult struct {
	Item      *domain.CatalogItem
	Persisted bool
}

// CatalogService defines the catalog use cases.
type CatalogService interface {
	// Listing builds the aggregated render payload. It never fails; lookup
	// errors surface only as fallback messages on the view.
	Listing(ctx context.Context, in ListingInput) *ListingView
	Items(ctx context.Context, filter ItemsFilter) ([]domain.CatalogItem, error)
	ItemByID(ctx context.Context, id string) (*domain.CatalogItem, error)
	Categories(ctx context.Context) ([]domain.Category, error)

	// AddItem runs the upload pipeline: stream the file to the asset store,
	// then persist the item with the resolved reference URL.
	AddItem(ctx context.Context, in AddItemInput) (*AddItemResult, error)
	DeleteItem(ctx context.Context, id string) error
	// AddCategory inserts a category; an empty name completes without
	// persisting and reports persisted=false.
	AddCategory(ctx context.Context, name string) (persisted bool, err error)
	DeleteCategory(ctx context.Context, id string) error
}
