package repositories

import (
	"context"

	"github.com/gwlabs/giveaway-backend/internal/models"
)

// GiveawayRepository defines the interface for giveaway data operations.
// Lookups return mongo.ErrNoDocuments when nothing matches. The conditional
// mutations (Append*, FinalizeIfActive, CancelIfActive) only touch the active
// record for the guild and report whether a record was actually updated, so
// a close racing a second close resolves to exactly one winner.
type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) error
	FindActive(ctx context.Context, guildID string) (*models.Giveaway, error)
	FindLatest(ctx context.Context, guildID string) (*models.Giveaway, error)
	FindAllActive(ctx context.Context) ([]*models.Giveaway, error)
	SetMessageID(ctx context.Context, guildID, messageID string) error
	AppendEligible(ctx context.Context, guildID, userID string) (bool, error)
	AppendIneligible(ctx context.Context, guildID, userID string) (bool, error)
	FinalizeIfActive(ctx context.Context, guildID string, winners []string) (bool, error)
	CancelIfActive(ctx context.Context, guildID string) (bool, error)
	// RecentWinners returns the union of initial winners over the last
	// `lookback` inactive giveaways for the guild, newest deadline first.
	RecentWinners(ctx context.Context, guildID string, lookback int) (map[string]bool, error)
}

// EligibilityCacheRepository defines the interface for eligibility cache
// operations. One entry per username, upserted whole.
type EligibilityCacheRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.EligibilityCacheEntry, error)
	Upsert(ctx context.Context, entry *models.EligibilityCacheEntry) error
}

// UserMapRepository defines the interface for user-to-partner-username
// mapping operations.
type UserMapRepository interface {
	Upsert(ctx context.Context, mapping *models.UserMapping) error
	FindByUserID(ctx context.Context, userID string) (*models.UserMapping, error)
	Delete(ctx context.Context, userID string) error
	FindAll(ctx context.Context) ([]*models.UserMapping, error)
}

// TemplateRepository defines the interface for giveaway template operations.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) error
	FindByName(ctx context.Context, guildID, name string) (*models.Template, error)
	FindAll(ctx context.Context, guildID string) ([]*models.Template, error)
	DeleteByName(ctx context.Context, guildID, name string) error
}

// ServerSettingsRepository defines the interface for per-guild default
// settings.
type ServerSettingsRepository interface {
	Find(ctx context.Context, guildID string) (*models.ServerSettings, error)
	Upsert(ctx context.Context, settings *models.ServerSettings) error
}

// ModeratorRepository defines the interface for moderator account storage.
type ModeratorRepository interface {
	Create(ctx context.Context, moderator *models.Moderator) error
	FindByEmail(ctx context.Context, email string) (*models.Moderator, error)
}
