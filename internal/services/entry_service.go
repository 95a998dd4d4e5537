package services

import (
	"context"
	"fmt"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"github.com/gwlabs/giveaway-backend/pkg/presentation"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// EntryOutcome is the result of an entry attempt.
type EntryOutcome string

const (
	EntryNoActiveGiveaway    EntryOutcome = "NO_ACTIVE_GIVEAWAY"
	EntryAlreadyEntered      EntryOutcome = "ALREADY_ENTERED"
	EntryAdmitted            EntryOutcome = "ADMITTED"
	EntryAdmittedManualCheck EntryOutcome = "ADMITTED_PENDING_MANUAL_CHECK"
	EntryRejected            EntryOutcome = "REJECTED"
)

// EntryResult carries the outcome of an entry attempt plus the rejection
// reason when the entrant was turned away.
type EntryResult struct {
	Outcome EntryOutcome `json:"outcome"`
	Reason  string       `json:"reason,omitempty"`
}

// Compile-time check to ensure entryService implements EntryService
var _ EntryService = (*entryService)(nil)

// EntryService admits participants into the active giveaway.
type EntryService interface {
	Enter(ctx context.Context, guildID, userID string) (*EntryResult, error)
}

type entryService struct {
	giveawayRepo repositories.GiveawayRepository
	userMapRepo  repositories.UserMapRepository
	eligibility  EligibilityService
	renderer     presentation.Renderer
	locks        *GuildLocks
}

// NewEntryService creates a new EntryService
func NewEntryService(
	giveawayRepo repositories.GiveawayRepository,
	userMapRepo repositories.UserMapRepository,
	eligibility EligibilityService,
	renderer presentation.Renderer,
	locks *GuildLocks,
) EntryService {
	return &entryService{
		giveawayRepo: giveawayRepo,
		userMapRepo:  userMapRepo,
		eligibility:  eligibility,
		renderer:     renderer,
		locks:        locks,
	}
}

// Enter processes an entry request for the guild's active giveaway. Repeat
// requests from the same user are no-ops. With auto-check off, or for a user
// with no partner username on file, the user goes straight into the eligible
// list and verification happens at close. Every branch that mutates the
// record re-renders the public entry surface.
func (s *entryService) Enter(ctx context.Context, guildID, userID string) (*EntryResult, error) {
	lock := s.locks.Get(guildID)
	lock.Lock()
	defer lock.Unlock()

	giveaway, err := s.giveawayRepo.FindActive(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return &EntryResult{Outcome: EntryNoActiveGiveaway}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active giveaway: %w", err)
	}

	if giveaway.HasEntered(userID) {
		return &EntryResult{Outcome: EntryAlreadyEntered}, nil
	}

	if !giveaway.AutoCheck {
		return s.admitEligible(ctx, giveaway, userID, EntryAdmitted)
	}

	mapping, err := s.userMapRepo.FindByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return s.admitEligible(ctx, giveaway, userID, EntryAdmitted)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user mapping: %w", err)
	}

	verdict, err := s.eligibility.Resolve(ctx, mapping.PartnerUsername, giveaway.MinXP)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve eligibility: %w", err)
	}

	switch verdict.Status {
	case models.VerdictManualCheck:
		return s.admitEligible(ctx, giveaway, userID, EntryAdmittedManualCheck)

	case models.VerdictBlocked:
		appended, err := s.giveawayRepo.AppendIneligible(ctx, guildID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to record ineligible entrant: %w", err)
		}
		if !appended {
			// Giveaway closed between the read and the write.
			return &EntryResult{Outcome: EntryNoActiveGiveaway}, nil
		}
		giveaway.IneligibleEntrants = append(giveaway.IneligibleEntrants, userID)
		s.render(ctx, giveaway)
		return &EntryResult{Outcome: EntryRejected, Reason: verdict.Reason}, nil
	}

	return s.admitEligible(ctx, giveaway, userID, EntryAdmitted)
}

func (s *entryService) admitEligible(ctx context.Context, giveaway *models.Giveaway, userID string, outcome EntryOutcome) (*EntryResult, error) {
	appended, err := s.giveawayRepo.AppendEligible(ctx, giveaway.GuildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to record eligible entrant: %w", err)
	}
	if !appended {
		return &EntryResult{Outcome: EntryNoActiveGiveaway}, nil
	}
	giveaway.EligibleEntrants = append(giveaway.EligibleEntrants, userID)
	s.render(ctx, giveaway)
	return &EntryResult{Outcome: outcome}, nil
}

func (s *entryService) render(ctx context.Context, giveaway *models.Giveaway) {
	if err := s.renderer.Render(ctx, giveaway); err != nil {
		slog.Error("Failed to render giveaway", "error", err, "guildId", giveaway.GuildID)
	}
}
