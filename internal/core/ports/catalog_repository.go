package ports

import (
	"context"
	"time"

	"github.com/catalogworks/catalog/internal/core/domain"
)

// CatalogRepository defines the persistence operations over catalog items
// and categories.
type CatalogRepository interface {
	// AllItems returns every item, drafts included.
	AllItems(ctx context.Context) ([]domain.CatalogItem, error)
	// PublishedItems returns only items with the published flag set.
	PublishedItems(ctx context.Context) ([]domain.CatalogItem, error)
	// PublishedItemsByCategory restricts PublishedItems to one category name.
	PublishedItemsByCategory(ctx context.Context, category string) ([]domain.CatalogItem, error)
	// ItemsByMinDate returns items whose publish date is on or after min.
	ItemsByMinDate(ctx context.Context, min time.Time) ([]domain.CatalogItem, error)
	ItemByID(ctx context.Context, id string) (*domain.CatalogItem, error)
	InsertItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error)
	// DeleteItem removes one item; domain.ErrItemNotFound when id is unknown.
	DeleteItem(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]domain.Category, error)
	InsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	// DeleteCategory removes one category; domain.ErrCategoryNotFound when id is unknown.
	DeleteCategory(ctx context.Context, id string) error
}
