package mongodb

import (
	"context"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplateRepository implements the repositories.TemplateRepository interface
type TemplateRepository struct {
	collection *mongo.Collection
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *mongo.Database) repositories.TemplateRepository {
	collection := db.Collection("templates")

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "guildId", Value: 1},
			{Key: "templateId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &TemplateRepository{collection: collection}
}

// Create inserts a new template.
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	_, err := r.collection.InsertOne(ctx, template)
	return err
}

// Update replaces a template identified by guild and template id.
func (r *TemplateRepository) Update(ctx context.Context, template *models.Template) error {
	filter := bson.M{"guildId": template.GuildID, "templateId": template.TemplateID}
	_, err := r.collection.ReplaceOne(ctx, filter, template)
	return err
}

// FindByName finds a template by guild and name.
func (r *TemplateRepository) FindByName(ctx context.Context, guildID, name string) (*models.Template, error) {
	var template models.Template
	err := r.collection.FindOne(ctx, bson.M{"guildId": guildID, "name": name}).Decode(&template)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// FindAll finds all templates for a guild, sorted by name.
func (r *TemplateRepository) FindAll(ctx context.Context, guildID string) ([]*models.Template, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"guildId": guildID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*models.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []*models.Template{}
	}
	return templates, nil
}

// DeleteByName removes a template by guild and name.
func (r *TemplateRepository) DeleteByName(ctx context.Context, guildID, name string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"guildId": guildID, "name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
