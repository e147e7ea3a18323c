package domain

import (
	"errors"
	"time"
)

var ErrItemNotFound = errors.New("item not found")
var ErrCategoryNotFound = errors.New("category not found")

// CatalogItem is a content entry in the catalog. FeatureImage, once set,
// is always a resolved asset-store reference URL, never a local path.
type CatalogItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	PostDate     time.Time `json:"postDate"`
	Category     string    `json:"category"`
	FeatureImage string    `json:"featureImage"`
	Published    bool      `json:"published"`
}

// Category groups catalog items. Items reference categories by name.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
