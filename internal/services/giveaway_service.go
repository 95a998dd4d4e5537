package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"github.com/gwlabs/giveaway-backend/pkg/presentation"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Hardcoded fallbacks used when neither a template nor server defaults
// supply a value.
const (
	fallbackDurationMinutes = 2
	fallbackCurrency        = "CAD"
	fallbackNumWinners      = 1
)

var validCurrencies = map[string]bool{"CAD": true, "USD": true, "NZD": true}

// OpenParams is the full set of creation parameters for a giveaway.
type OpenParams struct {
	GuildID                string              `json:"guildId" binding:"required"`
	ChannelID              string              `json:"channelId" binding:"required"`
	Type                   models.GiveawayType `json:"giveawayType" binding:"required"`
	MinXP                  int                 `json:"minXp"`
	AdditionalRequirements string              `json:"additionalRequirements"`
	Amount                 *float64            `json:"amount"`
	Currency               string              `json:"currency"`
	AutoCheck              bool                `json:"autoCheck"`
	HostedBy               string              `json:"hostedBy" binding:"required"`
	WithMember             string              `json:"withMember"`
	NumWinners             int                 `json:"numWinners"`
	DurationMinutes        int                 `json:"durationMinutes" binding:"required"`
}

// QuickOpenParams opens a giveaway from a template or the guild's defaults.
// The detail fields (amount, threshold, featured member, requirements) come
// from the caller when no template supplies them.
type QuickOpenParams struct {
	GuildID                string   `json:"guildId" binding:"required"`
	ChannelID              string   `json:"channelId" binding:"required"`
	HostedBy               string   `json:"hostedBy" binding:"required"`
	TemplateName           string   `json:"templateName"`
	MinXP                  int      `json:"minXp"`
	AdditionalRequirements string   `json:"additionalRequirements"`
	Amount                 *float64 `json:"amount"`
	WithMember             string   `json:"withMember"`
}

// ManualCheckResult is the outcome of an on-demand eligibility check.
type ManualCheckResult struct {
	Username string          `json:"username"`
	Verdict  *models.Verdict `json:"verdict"`
}

// Compile-time check to ensure giveawayService implements GiveawayService
var _ GiveawayService = (*giveawayService)(nil)

// GiveawayService is the command surface of the engine: open, end, cancel,
// reroll, runback and on-demand eligibility checks.
type GiveawayService interface {
	Open(ctx context.Context, params *OpenParams) (*models.Giveaway, error)
	QuickOpen(ctx context.Context, params *QuickOpenParams) (*models.Giveaway, error)
	SetMessageID(ctx context.Context, guildID, messageID string) error
	End(ctx context.Context, guildID string) error
	Cancel(ctx context.Context, guildID string) error
	Reroll(ctx context.Context, guildID string) ([]string, error)
	PrepareRunback(ctx context.Context, guildID, channelID, hostedBy string) (string, *GiveawayDraft, error)
	ConfirmDraft(ctx context.Context, draftID string) (*models.Giveaway, error)
	CheckByUsername(ctx context.Context, username string) (*ManualCheckResult, error)
	CheckByUser(ctx context.Context, userID string) (*ManualCheckResult, error)
}

type giveawayService struct {
	giveawayRepo repositories.GiveawayRepository
	templateRepo repositories.TemplateRepository
	settingsRepo repositories.ServerSettingsRepository
	userMapRepo  repositories.UserMapRepository
	eligibility  EligibilityService
	scheduler    *LifecycleScheduler
	renderer     presentation.Renderer
	drafts       *DraftStore
}

// NewGiveawayService creates a new GiveawayService
func NewGiveawayService(
	giveawayRepo repositories.GiveawayRepository,
	templateRepo repositories.TemplateRepository,
	settingsRepo repositories.ServerSettingsRepository,
	userMapRepo repositories.UserMapRepository,
	eligibility EligibilityService,
	scheduler *LifecycleScheduler,
	renderer presentation.Renderer,
	drafts *DraftStore,
) GiveawayService {
	return &giveawayService{
		giveawayRepo: giveawayRepo,
		templateRepo: templateRepo,
		settingsRepo: settingsRepo,
		userMapRepo:  userMapRepo,
		eligibility:  eligibility,
		scheduler:    scheduler,
		renderer:     renderer,
		drafts:       drafts,
	}
}

// validateParams enforces the creation rules. Custom relaxes the
// amount/requirements rule; the threshold/amount pairing rules hold for
// every type.
func validateParams(params *OpenParams) error {
	if !models.ValidGiveawayType(params.Type) {
		return &ValidationError{Reason: fmt.Sprintf("unknown giveaway type %q", params.Type)}
	}
	if params.Currency != "" && !validCurrencies[params.Currency] {
		return &ValidationError{Reason: fmt.Sprintf("unknown currency %q", params.Currency)}
	}
	if params.DurationMinutes < 1 {
		return &ValidationError{Reason: "duration must be at least 1 minute"}
	}
	if params.NumWinners < 1 {
		return &ValidationError{Reason: "winner count must be at least 1"}
	}
	if params.MinXP < 0 {
		return &ValidationError{Reason: "minimum XP cannot be negative"}
	}
	if params.Amount != nil && *params.Amount <= 0 {
		return &ValidationError{Reason: "amount must be positive"}
	}
	if params.MinXP > 0 && params.Amount == nil {
		return &ValidationError{Reason: "a minimum XP threshold requires an amount"}
	}
	if params.Amount != nil && params.MinXP == 0 && params.AdditionalRequirements == "" {
		return &ValidationError{Reason: "an amount requires a minimum XP threshold or additional requirements"}
	}
	if params.Type != models.GiveawayTypeCustom && params.Amount == nil && params.AdditionalRequirements == "" {
		return &ValidationError{Reason: "fill in an amount or additional requirements"}
	}
	return nil
}

// Open creates and starts a giveaway. Rejected when the guild already has an
// active one; the partial unique index backstops the check against a racing
// second open.
func (s *giveawayService) Open(ctx context.Context, params *OpenParams) (*models.Giveaway, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	_, err := s.giveawayRepo.FindActive(ctx, params.GuildID)
	if err == nil {
		return nil, ErrGiveawayActive
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check active giveaway: %w", err)
	}

	now := time.Now()
	giveaway := &models.Giveaway{
		GuildID:                params.GuildID,
		ChannelID:              params.ChannelID,
		Type:                   params.Type,
		MinXP:                  params.MinXP,
		AdditionalRequirements: params.AdditionalRequirements,
		Amount:                 params.Amount,
		Currency:               params.Currency,
		AutoCheck:              params.AutoCheck,
		HostedBy:               params.HostedBy,
		WithMember:             params.WithMember,
		NumWinners:             params.NumWinners,
		StartedAt:              now,
		DurationMinutes:        params.DurationMinutes,
		EndsAt:                 now.Add(time.Duration(params.DurationMinutes) * time.Minute),
		IsActive:               true,
	}
	if giveaway.Currency == "" {
		giveaway.Currency = fallbackCurrency
	}

	if err := s.giveawayRepo.Create(ctx, giveaway); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrGiveawayActive
		}
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	if err := s.renderer.Render(ctx, giveaway); err != nil {
		slog.Error("Failed to render new giveaway", "error", err, "guildId", giveaway.GuildID)
	}
	s.scheduler.Track(giveaway)

	slog.Info("Giveaway opened", "guildId", giveaway.GuildID, "type", giveaway.Type, "endsAt", giveaway.EndsAt)
	return giveaway, nil
}

// QuickOpen starts a giveaway from a named template, or from the guild's
// server defaults when no template name is given.
func (s *giveawayService) QuickOpen(ctx context.Context, params *QuickOpenParams) (*models.Giveaway, error) {
	open := &OpenParams{
		GuildID:                params.GuildID,
		ChannelID:              params.ChannelID,
		HostedBy:               params.HostedBy,
		MinXP:                  params.MinXP,
		AdditionalRequirements: params.AdditionalRequirements,
		Amount:                 params.Amount,
		WithMember:             params.WithMember,
	}

	if params.TemplateName != "" {
		template, err := s.templateRepo.FindByName(ctx, params.GuildID, params.TemplateName)
		if err == mongo.ErrNoDocuments {
			return nil, ErrTemplateNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
		open.Type = template.Type
		open.DurationMinutes = template.DurationMinutes
		open.NumWinners = template.NumWinners
		open.AutoCheck = template.AutoCheck
		open.Currency = template.Currency
		if template.MinXP > 0 {
			open.MinXP = template.MinXP
		}
		if template.Amount != nil {
			open.Amount = template.Amount
		}
		if template.WithMember != "" {
			open.WithMember = template.WithMember
		}
		if template.AdditionalRequirements != "" {
			open.AdditionalRequirements = template.AdditionalRequirements
		}
	} else {
		settings, err := s.settingsRepo.Find(ctx, params.GuildID)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("failed to load server settings: %w", err)
		}
		open.Type = models.GiveawayTypeBuySplit
		open.DurationMinutes = fallbackDurationMinutes
		open.Currency = fallbackCurrency
		open.NumWinners = fallbackNumWinners
		open.AutoCheck = true
		if settings != nil {
			if settings.DefaultType != nil {
				open.Type = *settings.DefaultType
			}
			if settings.DefaultDurationMinutes != nil {
				open.DurationMinutes = *settings.DefaultDurationMinutes
			}
			if settings.DefaultCurrency != nil {
				open.Currency = *settings.DefaultCurrency
			}
			if settings.DefaultWinners != nil {
				open.NumWinners = *settings.DefaultWinners
			}
			if settings.DefaultAutoCheck != nil {
				open.AutoCheck = *settings.DefaultAutoCheck
			}
		}
	}

	if open.DurationMinutes < 1 {
		open.DurationMinutes = fallbackDurationMinutes
	}
	if open.NumWinners < 1 {
		open.NumWinners = fallbackNumWinners
	}
	if open.Currency == "" {
		open.Currency = fallbackCurrency
	}

	return s.Open(ctx, open)
}

// SetMessageID records the platform message id after the bridge has created
// the public entry message.
func (s *giveawayService) SetMessageID(ctx context.Context, guildID, messageID string) error {
	if err := s.giveawayRepo.SetMessageID(ctx, guildID, messageID); err != nil {
		return fmt.Errorf("failed to set message id: %w", err)
	}
	return nil
}

// End closes the active giveaway now rather than at its deadline.
func (s *giveawayService) End(ctx context.Context, guildID string) error {
	return s.scheduler.Close(ctx, guildID)
}

// Cancel aborts the active giveaway without drawing winners.
func (s *giveawayService) Cancel(ctx context.Context, guildID string) error {
	return s.scheduler.Cancel(ctx, guildID)
}

// Reroll draws replacement winners from the latest giveaway, excluding its
// initial winners.
func (s *giveawayService) Reroll(ctx context.Context, guildID string) ([]string, error) {
	return s.scheduler.Reroll(ctx, guildID)
}

// PrepareRunback drafts a new giveaway from the guild's most recent one and
// parks it for confirmation. Rejected while a giveaway is active.
func (s *giveawayService) PrepareRunback(ctx context.Context, guildID, channelID, hostedBy string) (string, *GiveawayDraft, error) {
	_, err := s.giveawayRepo.FindActive(ctx, guildID)
	if err == nil {
		return "", nil, ErrGiveawayActive
	}
	if err != mongo.ErrNoDocuments {
		return "", nil, fmt.Errorf("failed to check active giveaway: %w", err)
	}

	last, err := s.giveawayRepo.FindLatest(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return "", nil, ErrNoGiveaway
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load last giveaway: %w", err)
	}

	draft := &GiveawayDraft{
		GuildID:                guildID,
		ChannelID:              channelID,
		Type:                   last.Type,
		MinXP:                  last.MinXP,
		AdditionalRequirements: last.AdditionalRequirements,
		Amount:                 last.Amount,
		Currency:               last.Currency,
		AutoCheck:              last.AutoCheck,
		HostedBy:               hostedBy,
		WithMember:             last.WithMember,
		NumWinners:             last.NumWinners,
		DurationMinutes:        last.DurationMinutes,
	}
	id := s.drafts.Put(draft)

	slog.Info("Runback draft prepared", "guildId", guildID, "draftId", id)
	return id, draft, nil
}

// ConfirmDraft opens the giveaway held in a pending draft. The draft is
// consumed whether or not the open succeeds.
func (s *giveawayService) ConfirmDraft(ctx context.Context, draftID string) (*models.Giveaway, error) {
	draft, err := s.drafts.Take(draftID)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, &OpenParams{
		GuildID:                draft.GuildID,
		ChannelID:              draft.ChannelID,
		Type:                   draft.Type,
		MinXP:                  draft.MinXP,
		AdditionalRequirements: draft.AdditionalRequirements,
		Amount:                 draft.Amount,
		Currency:               draft.Currency,
		AutoCheck:              draft.AutoCheck,
		HostedBy:               draft.HostedBy,
		WithMember:             draft.WithMember,
		NumWinners:             draft.NumWinners,
		DurationMinutes:        draft.DurationMinutes,
	})
}

// CheckByUsername runs an on-demand eligibility check with no threshold.
func (s *giveawayService) CheckByUsername(ctx context.Context, username string) (*ManualCheckResult, error) {
	verdict, err := s.eligibility.Resolve(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	return &ManualCheckResult{Username: username, Verdict: verdict}, nil
}

// CheckByUser resolves the user's mapped partner username first.
func (s *giveawayService) CheckByUser(ctx context.Context, userID string) (*ManualCheckResult, error) {
	mapping, err := s.userMapRepo.FindByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoMapping
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user mapping: %w", err)
	}
	return s.CheckByUsername(ctx, mapping.PartnerUsername)
}
