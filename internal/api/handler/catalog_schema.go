package handler

import (
	"github.com/catalogworks/catalog/internal/core/domain"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// --- Request DTOs (form-bound) ---

// addItemRequest binds the add-item form. Title is deliberately not
// required: an empty title completes the pipeline without persisting.
type addItemRequest struct {
	Title     string `form:"title" validate:"omitempty,max=200"`
	Body      string `form:"body"`
	Category  string `form:"category" validate:"omitempty,max=100"`
	Published string `form:"published"`
}

func (r addItemRequest) published() bool {
	return r.Published == "on" || r.Published == "true"
}

// addCategoryRequest binds the add-category form. An empty name is a
// silent no-op rather than a validation failure.
type addCategoryRequest struct {
	Category string `form:"category" validate:"omitempty,max=100"`
}

// itemsQuery binds the /items filter parameters.
type itemsQuery struct {
	Category string `query:"category"`
	MinDate  string `query:"minDate" validate:"omitempty,datetime=2006-01-02"`
}

// --- Page payloads ---

type shopPage struct {
	View    *ports.ListingView
	Message string
}

type itemsPage struct {
	Items   []domain.CatalogItem
	Message string
}

type addItemPage struct {
	Categories []domain.Category
}

type categoriesPage struct {
	Categories []domain.Category
	Message    string
}
