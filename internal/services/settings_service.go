package services

import (
	"context"
	"fmt"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure settingsService implements SettingsService
var _ SettingsService = (*settingsService)(nil)

// SettingsService manages per-guild default giveaway settings.
type SettingsService interface {
	Get(ctx context.Context, guildID string) (*models.ServerSettings, error)
	Set(ctx context.Context, settings *models.ServerSettings) error
}

type settingsService struct {
	settingsRepo repositories.ServerSettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repositories.ServerSettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// Get returns the guild's defaults. A guild with nothing set gets an empty
// record rather than an error.
func (s *settingsService) Get(ctx context.Context, guildID string) (*models.ServerSettings, error) {
	settings, err := s.settingsRepo.Find(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return &models.ServerSettings{GuildID: guildID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load server settings: %w", err)
	}
	return settings, nil
}

// Set upserts the guild's defaults. Only the provided (non-nil) fields are
// meaningful; nil fields stay unset.
func (s *settingsService) Set(ctx context.Context, settings *models.ServerSettings) error {
	if settings.GuildID == "" {
		return &ValidationError{Reason: "guild id is required"}
	}
	if settings.DefaultType != nil && !models.ValidGiveawayType(*settings.DefaultType) {
		return &ValidationError{Reason: fmt.Sprintf("unknown giveaway type %q", *settings.DefaultType)}
	}
	if settings.DefaultCurrency != nil && !validCurrencies[*settings.DefaultCurrency] {
		return &ValidationError{Reason: fmt.Sprintf("unknown currency %q", *settings.DefaultCurrency)}
	}
	if settings.DefaultDurationMinutes != nil && *settings.DefaultDurationMinutes < 1 {
		return &ValidationError{Reason: "default duration must be at least 1 minute"}
	}
	if settings.DefaultWinners != nil && *settings.DefaultWinners < 1 {
		return &ValidationError{Reason: "default winner count must be at least 1"}
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return fmt.Errorf("failed to save server settings: %w", err)
	}
	return nil
}
