package mongodb

import (
	"context"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerSettingsRepository implements the
// repositories.ServerSettingsRepository interface
type ServerSettingsRepository struct {
	collection *mongo.Collection
}

// NewServerSettingsRepository creates a new ServerSettingsRepository
func NewServerSettingsRepository(db *mongo.Database) repositories.ServerSettingsRepository {
	return &ServerSettingsRepository{
		collection: db.Collection("server_settings"),
	}
}

// Find finds the settings for a guild.
func (r *ServerSettingsRepository) Find(ctx context.Context, guildID string) (*models.ServerSettings, error) {
	var settings models.ServerSettings
	err := r.collection.FindOne(ctx, bson.M{"guildId": guildID}).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the settings for a guild whole.
func (r *ServerSettingsRepository) Upsert(ctx context.Context, settings *models.ServerSettings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"guildId": settings.GuildID}, settings, opts)
	return err
}
