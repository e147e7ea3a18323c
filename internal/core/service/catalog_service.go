package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/catalogworks/catalog/internal/core/domain"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// noResultsMessage is the fallback shown in place of a failed lookup.
const noResultsMessage = "no results"

// minDateLayout is the calendar-date format accepted by the minDate filter.
const minDateLayout = "2006-01-02"

// CatalogService implements the catalog use cases, including the view
// aggregation and the upload pipeline.
type CatalogService struct {
	repo   ports.CatalogRepository
	assets ports.AssetStore
	logger zerolog.Logger
}

func NewCatalogService(repo ports.CatalogRepository, assets ports.AssetStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, assets: assets, logger: logger}
}

// Listing builds the render payload for the shop listing from three
// independent lookups: the item collection, the optional single item, and
// the category list. Each lookup is failure-isolated; a failed lookup sets
// its fallback message and leaves the others untouched. Listing waits for
// every lookup before returning.
func (s *CatalogService) Listing(ctx context.Context, in ports.ListingInput) *ports.ListingView {
	var (
		items    []domain.CatalogItem
		itemsErr error
		featured *domain.CatalogItem
		featErr  error
		cats     []domain.Category
		catsErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		if in.Category != "" {
			items, itemsErr = s.repo.PublishedItemsByCategory(ctx, in.Category)
		} else {
			items, itemsErr = s.repo.PublishedItems(ctx)
		}
		return nil
	})
	if in.ItemID != "" {
		g.Go(func() error {
			featured, featErr = s.repo.ItemByID(ctx, in.ItemID)
			return nil
		})
	}
	g.Go(func() error {
		cats, catsErr = s.repo.Categories(ctx)
		return nil
	})
	_ = g.Wait()

	view := &ports.ListingView{}

	if itemsErr != nil {
		s.logger.Warn().Err(itemsErr).Str("category", in.Category).Msg("listing item lookup failed")
		view.ItemsMessage = noResultsMessage
	} else {
		sortByPostDateDesc(items)
		view.Items = items
		if in.ItemID == "" && len(items) > 0 {
			view.Item = &items[0]
		}
	}

	if in.ItemID != "" {
		if featErr != nil {
			s.logger.Warn().Err(featErr).Str("item_id", in.ItemID).Msg("listing item-by-id lookup failed")
			view.ItemsMessage = noResultsMessage
		} else {
			view.Item = featured
		}
	}

	if catsErr != nil {
		s.logger.Warn().Err(catsErr).Msg("listing category lookup failed")
		view.CategoriesMessage = noResultsMessage
	} else {
		view.Categories = cats
	}

	return view
}

// sortByPostDateDesc orders items most recent first. The sort is stable so
// items sharing a publish date keep their fetch order.
func sortByPostDateDesc(items []domain.CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PostDate.After(items[j].PostDate)
	})
}

// Items resolves the /items collection. Category takes precedence over
// MinDate; with neither set, every item is returned, drafts included.
func (s *CatalogService) Items(ctx context.Context, filter ports.ItemsFilter) ([]domain.CatalogItem, error) {
	switch {
	case filter.Category != "":
		return s.repo.PublishedItemsByCategory(ctx, filter.Category)
	case filter.MinDate != "":
		min, err := time.Parse(minDateLayout, filter.MinDate)
		if err != nil {
			return nil, fmt.Errorf("items: parse minDate %q: %w", filter.MinDate, err)
		}
		return s.repo.ItemsByMinDate(ctx, min)
	default:
		return s.repo.AllItems(ctx)
	}
}

func (s *CatalogService) ItemByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	return s.repo.ItemByID(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.Categories(ctx)
}

// AddItem runs the upload pipeline: stream the buffered file to the asset
// store, then build the item from the form fields plus the resolved
// reference URL and today's calendar date. The upload always runs first;
// an item with an empty title is skipped after the upload completes,
// without signalling failure.
func (s *CatalogService) AddItem(ctx context.Context, in ports.AddItemInput) (*ports.AddItemResult, error) {
	uploaded, err := s.assets.Upload(ctx, in.File)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", in.File.Filename).Msg("asset upload failed")
		return nil, err
	}

	item := &domain.CatalogItem{
		Title:        in.Title,
		Body:         in.Body,
		Category:     in.Category,
		Published:    in.Published,
		FeatureImage: uploaded.URL,
		PostDate:     today(),
	}

	if in.Title == "" {
		s.logger.Warn().Str("asset_url", uploaded.URL).Msg("add item skipped: empty title")
		return &ports.AddItemResult{Item: item}, nil
	}

	created, err := s.repo.InsertItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	s.logger.Info().Str("item_id", created.ID).Str("title", created.Title).Msg("item created")
	return &ports.AddItemResult{Item: created, Persisted: true}, nil
}

// DeleteItem removes one item. A nonexistent id is logged and swallowed;
// the caller redirects regardless.
func (s *CatalogService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			s.logger.Warn().Str("item_id", id).Msg("delete item: not found")
			return nil
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.logger.Info().Str("item_id", id).Msg("item deleted")
	return nil
}

// AddCategory inserts a category. An empty name completes without
// persisting, mirroring the add-item empty-title behavior.
func (s *CatalogService) AddCategory(ctx context.Context, name string) (bool, error) {
	if name == "" {
		s.logger.Warn().Msg("add category skipped: empty name")
		return false, nil
	}
	created, err := s.repo.InsertCategory(ctx, &domain.Category{Name: name})
	if err != nil {
		return false, fmt.Errorf("add category: %w", err)
	}
	s.logger.Info().Str("category_id", created.ID).Str("name", created.Name).Msg("category created")
	return true, nil
}

// DeleteCategory removes one category with the same silent-miss semantics
// as DeleteItem.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			s.logger.Warn().Str("category_id", id).Msg("delete category: not found")
			return nil
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}

// today returns the calendar date at request time, midnight UTC.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
