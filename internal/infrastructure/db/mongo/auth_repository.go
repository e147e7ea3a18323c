package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/catalogworks/catalog/internal/core/domain"
)

const collectionUsers = "users"

// AuthRepository persists editor credentials and login history.
type AuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *AuthRepository {
	return &AuthRepository{coll: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserName     string             `bson:"user_name"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	LoginHistory []mongoLoginRecord `bson:"login_history,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type mongoLoginRecord struct {
	DateTime  time.Time `bson:"date_time"`
	UserAgent string    `bson:"user_agent"`
	Device    string    `bson:"device,omitempty"`
}

func (r *AuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		UserName:     user.UserName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AuthRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"user_name": userName}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	history := make([]domain.LoginRecord, 0, len(doc.LoginHistory))
	for _, rec := range doc.LoginHistory {
		history = append(history, domain.LoginRecord{
			DateTime:  rec.DateTime.UTC(),
			UserAgent: rec.UserAgent,
			Device:    rec.Device,
		})
	}

	return &domain.User{
		ID:           doc.ID.Hex(),
		UserName:     doc.UserName,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		LoginHistory: history,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}

func (r *AuthRepository) UpdateLoginHistory(ctx context.Context, userName string, history []domain.LoginRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]mongoLoginRecord, 0, len(history))
	for _, rec := range history {
		docs = append(docs, mongoLoginRecord{
			DateTime:  rec.DateTime,
			UserAgent: rec.UserAgent,
			Device:    rec.Device,
		})
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_name": userName},
		bson.M{"$set": bson.M{"login_history": docs}},
	)
	if err != nil {
		return fmt.Errorf("update login history: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique user-name index registration relies on.
func (r *AuthRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
