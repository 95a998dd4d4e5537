package mongodb

import (
	"context"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ModeratorRepository implements the repositories.ModeratorRepository interface
type ModeratorRepository struct {
	collection *mongo.Collection
}

// NewModeratorRepository creates a new ModeratorRepository
func NewModeratorRepository(db *mongo.Database) repositories.ModeratorRepository {
	return &ModeratorRepository{
		collection: db.Collection("moderators"),
	}
}

// Create inserts a new moderator account.
func (r *ModeratorRepository) Create(ctx context.Context, moderator *models.Moderator) error {
	moderator.CreatedAt = time.Now()
	moderator.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, moderator)
	if err != nil {
		return err
	}
	moderator.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail finds a moderator by email.
func (r *ModeratorRepository) FindByEmail(ctx context.Context, email string) (*models.Moderator, error) {
	var moderator models.Moderator
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&moderator)
	if err != nil {
		return nil, err
	}
	return &moderator, nil
}
