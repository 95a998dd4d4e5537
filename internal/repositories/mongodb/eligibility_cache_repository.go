package mongodb

import (
	"context"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EligibilityCacheRepository implements the
// repositories.EligibilityCacheRepository interface
type EligibilityCacheRepository struct {
	collection *mongo.Collection
}

// NewEligibilityCacheRepository creates a new EligibilityCacheRepository
func NewEligibilityCacheRepository(db *mongo.Database) repositories.EligibilityCacheRepository {
	collection := db.Collection("eligibility_cache")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &EligibilityCacheRepository{collection: collection}
}

// FindByUsername finds a cache entry by partner username.
func (r *EligibilityCacheRepository) FindByUsername(ctx context.Context, username string) (*models.EligibilityCacheEntry, error) {
	var entry models.EligibilityCacheEntry
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&entry)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when never checked
	}
	return &entry, nil
}

// Upsert writes a cache entry whole, replacing any previous values for the
// username.
func (r *EligibilityCacheRepository) Upsert(ctx context.Context, entry *models.EligibilityCacheEntry) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"username": entry.Username}, entry, opts)
	return err
}
