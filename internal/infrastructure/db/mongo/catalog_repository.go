package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/catalogworks/catalog/internal/core/domain"
)

const (
	collectionItems      = "items"
	collectionCategories = "categories"
)

// CatalogRepository persists catalog items and categories.
type CatalogRepository struct {
	items      *mongo.Collection
	categories *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		items:      db.Collection(collectionItems),
		categories: db.Collection(collectionCategories),
	}
}

type mongoItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Body         string             `bson:"body"`
	PostDate     time.Time          `bson:"post_date"`
	Category     string             `bson:"category"`
	FeatureImage string             `bson:"feature_image"`
	Published    bool               `bson:"published"`
}

type mongoCategory struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

func (r *CatalogRepository) AllItems(ctx context.Context) ([]domain.CatalogItem, error) {
	return r.findItems(ctx, bson.M{})
}

func (r *CatalogRepository) PublishedItems(ctx context.Context) ([]domain.CatalogItem, error) {
	return r.findItems(ctx, bson.M{"published": true})
}

func (r *CatalogRepository) PublishedItemsByCategory(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	return r.findItems(ctx, bson.M{"published": true, "category": category})
}

func (r *CatalogRepository) ItemsByMinDate(ctx context.Context, min time.Time) ([]domain.CatalogItem, error) {
	return r.findItems(ctx, bson.M{"post_date": bson.M{"$gte": min}})
}

func (r *CatalogRepository) findItems(ctx context.Context, filter bson.M) ([]domain.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.items.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoItem
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}

func (r *CatalogRepository) ItemByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoItem
	if err := r.items.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}

	item := doc.toDomain()
	return &item, nil
}

func (r *CatalogRepository) InsertItem(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoItem{
		Title:        item.Title,
		Body:         item.Body,
		PostDate:     item.PostDate,
		Category:     item.Category,
		FeatureImage: item.FeatureImage,
		Published:    item.Published,
	}

	res, err := r.items.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	created := *item
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *CatalogRepository) DeleteItem(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.items.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoCategory
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, domain.Category{ID: doc.ID.Hex(), Name: doc.Name})
	}
	return categories, nil
}

func (r *CatalogRepository) InsertCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.categories.InsertOne(ctx, mongoCategory{Name: category.Name})
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	created := *category
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCategoryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "post_date", Value: -1}}},
	})
	return err
}

func (d mongoItem) toDomain() domain.CatalogItem {
	return domain.CatalogItem{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Body:         d.Body,
		PostDate:     d.PostDate.UTC(),
		Category:     d.Category,
		FeatureImage: d.FeatureImage,
		Published:    d.Published,
	}
}
