package mongodb

import (
	"context"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserMapRepository implements the repositories.UserMapRepository interface
type UserMapRepository struct {
	collection *mongo.Collection
}

// NewUserMapRepository creates a new UserMapRepository
func NewUserMapRepository(db *mongo.Database) repositories.UserMapRepository {
	collection := db.Collection("user_map")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &UserMapRepository{collection: collection}
}

// Upsert writes a mapping, latest write wins.
func (r *UserMapRepository) Upsert(ctx context.Context, mapping *models.UserMapping) error {
	mapping.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"userId": mapping.UserID}, mapping, opts)
	return err
}

// FindByUserID finds a mapping by chat-platform user id.
func (r *UserMapRepository) FindByUserID(ctx context.Context, userID string) (*models.UserMapping, error) {
	var mapping models.UserMapping
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&mapping)
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Delete removes a mapping.
func (r *UserMapRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

// FindAll finds all mappings, most recently updated first.
func (r *UserMapRepository) FindAll(ctx context.Context) ([]*models.UserMapping, error) {
	opts := options.Find().SetSort(bson.M{"updatedAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mappings []*models.UserMapping
	if err := cursor.All(ctx, &mappings); err != nil {
		return nil, err
	}
	if mappings == nil {
		mappings = []*models.UserMapping{}
	}
	return mappings, nil
}
