package mongodb

import (
	"context"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GiveawayRepository implements the repositories.GiveawayRepository interface
type GiveawayRepository struct {
	collection *mongo.Collection
}

// NewGiveawayRepository creates a new GiveawayRepository and ensures the
// partial unique index guarding the one-active-giveaway-per-guild invariant.
func NewGiveawayRepository(db *mongo.Database) repositories.GiveawayRepository {
	collection := db.Collection("giveaways")

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "guildId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	}
	// Index creation failures surface on first insert instead.
	_, _ = collection.Indexes().CreateOne(context.Background(), indexModel)

	return &GiveawayRepository{collection: collection}
}

// Create inserts a new giveaway record.
func (r *GiveawayRepository) Create(ctx context.Context, giveaway *models.Giveaway) error {
	giveaway.CreatedAt = time.Now()
	giveaway.UpdatedAt = time.Now()
	if giveaway.EligibleEntrants == nil {
		giveaway.EligibleEntrants = []string{}
	}
	if giveaway.IneligibleEntrants == nil {
		giveaway.IneligibleEntrants = []string{}
	}
	if giveaway.InitialWinners == nil {
		giveaway.InitialWinners = []string{}
	}
	res, err := r.collection.InsertOne(ctx, giveaway)
	if err != nil {
		return err
	}
	giveaway.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindActive finds the active giveaway for a guild.
func (r *GiveawayRepository) FindActive(ctx context.Context, guildID string) (*models.Giveaway, error) {
	var giveaway models.Giveaway
	err := r.collection.FindOne(ctx, bson.M{"guildId": guildID, "isActive": true}).Decode(&giveaway)
	if err != nil {
		return nil, err // mongo.ErrNoDocuments when none
	}
	return &giveaway, nil
}

// FindLatest finds the most recently started giveaway for a guild, active
// or not. Used by reroll and runback.
func (r *GiveawayRepository) FindLatest(ctx context.Context, guildID string) (*models.Giveaway, error) {
	opts := options.FindOne().SetSort(bson.M{"startedAt": -1})
	var giveaway models.Giveaway
	err := r.collection.FindOne(ctx, bson.M{"guildId": guildID}, opts).Decode(&giveaway)
	if err != nil {
		return nil, err
	}
	return &giveaway, nil
}

// FindAllActive finds the active giveaways across all guilds. Used by the
// startup reconcile pass.
func (r *GiveawayRepository) FindAllActive(ctx context.Context) ([]*models.Giveaway, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var giveaways []*models.Giveaway
	if err := cursor.All(ctx, &giveaways); err != nil {
		return nil, err
	}
	if giveaways == nil {
		giveaways = []*models.Giveaway{}
	}
	return giveaways, nil
}

// SetMessageID records the rendered-message id on the active giveaway.
func (r *GiveawayRepository) SetMessageID(ctx context.Context, guildID, messageID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"guildId": guildID, "isActive": true},
		bson.M{"$set": bson.M{"messageId": messageID, "updatedAt": time.Now()}},
	)
	return err
}

// AppendEligible appends a user to the eligible list of the active giveaway.
// Returns false when no active giveaway matched.
func (r *GiveawayRepository) AppendEligible(ctx context.Context, guildID, userID string) (bool, error) {
	return r.appendEntrant(ctx, guildID, userID, "eligibleEntrants")
}

// AppendIneligible appends a user to the ineligible list of the active
// giveaway. Returns false when no active giveaway matched.
func (r *GiveawayRepository) AppendIneligible(ctx context.Context, guildID, userID string) (bool, error) {
	return r.appendEntrant(ctx, guildID, userID, "ineligibleEntrants")
}

func (r *GiveawayRepository) appendEntrant(ctx context.Context, guildID, userID, field string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"guildId": guildID, "isActive": true},
		bson.M{
			"$push": bson.M{field: userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FinalizeIfActive records the initial winners and clears the active flag in
// one conditional update. Returns false when the giveaway was already
// finalized, which makes a racing second close a no-op.
func (r *GiveawayRepository) FinalizeIfActive(ctx context.Context, guildID string, winners []string) (bool, error) {
	if winners == nil {
		winners = []string{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"guildId": guildID, "isActive": true},
		bson.M{"$set": bson.M{
			"initialWinners": winners,
			"isActive":       false,
			"updatedAt":      time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// CancelIfActive clears the active flag without recording winners.
func (r *GiveawayRepository) CancelIfActive(ctx context.Context, guildID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"guildId": guildID, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RecentWinners returns the union of initial winners over the guild's last
// `lookback` inactive giveaways, ordered by deadline descending.
func (r *GiveawayRepository) RecentWinners(ctx context.Context, guildID string, lookback int) (map[string]bool, error) {
	filter := bson.M{"guildId": guildID, "isActive": false}
	opts := options.Find().
		SetSort(bson.M{"endsAt": -1}).
		SetLimit(int64(lookback)).
		SetProjection(bson.M{"initialWinners": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recent := make(map[string]bool)
	for cursor.Next(ctx) {
		var doc struct {
			InitialWinners []string `bson:"initialWinners"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		for _, id := range doc.InitialWinners {
			recent[id] = true
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return recent, nil
}
