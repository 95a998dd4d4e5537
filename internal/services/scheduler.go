package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"github.com/gwlabs/giveaway-backend/internal/utils"
	"github.com/gwlabs/giveaway-backend/pkg/presentation"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

const manualVerificationNote = "(manual verification required)"

// guildProcs holds the two background processes owned by one open giveaway:
// the periodic re-render loop and the deadline timer.
type guildProcs struct {
	stopRefresh chan struct{}
	endTimer    *time.Timer
}

// LifecycleScheduler owns the refresh loop and deadline timer for every open
// giveaway. Manual end and the deadline timer converge on the same close
// routine; a conditional finalize update makes a racing second close a no-op,
// and both processes are torn down before the record is mutated so a stale
// tick can't touch a finalized giveaway.
type LifecycleScheduler struct {
	giveawayRepo    repositories.GiveawayRepository
	userMapRepo     repositories.UserMapRepository
	eligibility     EligibilityService
	renderer        presentation.Renderer
	announcer       presentation.Announcer
	locks           *GuildLocks
	refreshInterval time.Duration

	mu    sync.Mutex
	procs map[string]*guildProcs
}

// NewLifecycleScheduler creates a new LifecycleScheduler
func NewLifecycleScheduler(
	giveawayRepo repositories.GiveawayRepository,
	userMapRepo repositories.UserMapRepository,
	eligibility EligibilityService,
	renderer presentation.Renderer,
	announcer presentation.Announcer,
	locks *GuildLocks,
	refreshInterval time.Duration,
) *LifecycleScheduler {
	return &LifecycleScheduler{
		giveawayRepo:    giveawayRepo,
		userMapRepo:     userMapRepo,
		eligibility:     eligibility,
		renderer:        renderer,
		announcer:       announcer,
		locks:           locks,
		refreshInterval: refreshInterval,
		procs:           make(map[string]*guildProcs),
	}
}

// Track starts the refresh loop and arms the deadline timer for an open
// giveaway. Any processes already tracked for the guild are torn down first.
func (s *LifecycleScheduler) Track(giveaway *models.Giveaway) {
	guildID := giveaway.GuildID
	s.stopProcs(guildID)

	delay := time.Until(giveaway.EndsAt)
	if delay < 0 {
		delay = 0
	}

	procs := &guildProcs{
		stopRefresh: make(chan struct{}),
	}
	procs.endTimer = time.AfterFunc(delay, func() {
		if err := s.Close(context.Background(), guildID); err != nil && err != ErrNoActiveGiveaway {
			slog.Error("Deadline close failed", "error", err, "guildId", guildID)
		}
	})

	s.mu.Lock()
	s.procs[guildID] = procs
	s.mu.Unlock()

	go s.refreshLoop(guildID, procs.stopRefresh)

	slog.Info("Tracking giveaway", "guildId", guildID, "endsAt", giveaway.EndsAt)
}

// refreshLoop re-renders the giveaway on a fixed interval while it stays
// active. Self-terminates when the record goes inactive or disappears.
func (s *LifecycleScheduler) refreshLoop(guildID string, stop <-chan struct{}) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.refreshInterval)
			giveaway, err := s.giveawayRepo.FindActive(ctx, guildID)
			if err == mongo.ErrNoDocuments {
				cancel()
				return
			}
			if err != nil {
				slog.Error("Refresh read failed", "error", err, "guildId", guildID)
				cancel()
				continue
			}
			if err := s.renderer.Render(ctx, giveaway); err != nil {
				slog.Error("Refresh render failed", "error", err, "guildId", guildID)
			}
			cancel()
		}
	}
}

// stopProcs disarms the deadline timer and stops the refresh loop for a
// guild. Safe to call when nothing is tracked.
func (s *LifecycleScheduler) stopProcs(guildID string) {
	s.mu.Lock()
	procs, ok := s.procs[guildID]
	if ok {
		delete(s.procs, guildID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	procs.endTimer.Stop()
	close(procs.stopRefresh)
}

// Close finalizes the active giveaway: winners are drawn from the eligible
// list with the anti-repeat weighting, recorded, and announced. Invoked by
// both the deadline timer and the manual end command; whichever loses the
// race observes ErrNoActiveGiveaway or a failed conditional update and
// becomes a no-op.
func (s *LifecycleScheduler) Close(ctx context.Context, guildID string) error {
	s.stopProcs(guildID)

	lock := s.locks.Get(guildID)
	lock.Lock()
	defer lock.Unlock()

	giveaway, err := s.giveawayRepo.FindActive(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return ErrNoActiveGiveaway
	}
	if err != nil {
		return fmt.Errorf("failed to find active giveaway: %w", err)
	}

	if len(giveaway.EligibleEntrants) == 0 {
		finalized, err := s.giveawayRepo.FinalizeIfActive(ctx, guildID, nil)
		if err != nil {
			return fmt.Errorf("failed to finalize giveaway: %w", err)
		}
		if !finalized {
			return nil
		}
		giveaway.IsActive = false
		giveaway.InitialWinners = []string{}
		s.render(ctx, giveaway)
		s.announce(ctx, guildID, "Giveaway Ended - No Eligible Entrants")
		slog.Info("Giveaway closed with no eligible entrants", "guildId", guildID)
		return nil
	}

	recent, err := s.giveawayRepo.RecentWinners(ctx, guildID, RecentWinnerLookback)
	if err != nil {
		return fmt.Errorf("failed to load recent winners: %w", err)
	}

	winners := SelectWinners(giveaway.EligibleEntrants, giveaway.NumWinners, recent)

	finalized, err := s.giveawayRepo.FinalizeIfActive(ctx, guildID, winners)
	if err != nil {
		return fmt.Errorf("failed to finalize giveaway: %w", err)
	}
	if !finalized {
		// Lost the close race; the other invocation owns the announcement.
		return nil
	}

	giveaway.IsActive = false
	giveaway.InitialWinners = winners

	var b strings.Builder
	b.WriteString("Giveaway Ended! Congratulations\n")
	for _, winnerID := range winners {
		b.WriteString(s.winnerLine(ctx, giveaway, winnerID))
		b.WriteString("\n")
	}

	s.render(ctx, giveaway)
	s.announce(ctx, guildID, b.String())

	slog.Info("Giveaway closed", "guildId", guildID, "winners", len(winners), "eligible", len(giveaway.EligibleEntrants))
	return nil
}

// winnerLine builds one winner's display line. With auto-check on and a
// mapped username, the winner is re-checked against the cache-first resolver
// and annotated with XP or an ineligibility note. With auto-check off the
// winner is asked for manual verification.
func (s *LifecycleScheduler) winnerLine(ctx context.Context, giveaway *models.Giveaway, winnerID string) string {
	if !giveaway.AutoCheck {
		return winnerID + " " + manualVerificationNote
	}

	mapping, err := s.userMapRepo.FindByUserID(ctx, winnerID)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			slog.Error("Winner mapping lookup failed", "error", err, "userId", winnerID)
		}
		return winnerID
	}

	verdict, err := s.eligibility.Resolve(ctx, mapping.PartnerUsername, giveaway.MinXP)
	if err != nil {
		slog.Error("Winner eligibility re-check failed", "error", err, "userId", winnerID)
		return winnerID
	}

	switch verdict.Status {
	case models.VerdictManualCheck:
		return winnerID + " " + manualVerificationNote
	case models.VerdictBlocked:
		return winnerID + " Ineligible: " + verdict.Reason
	}
	return winnerID + " XP: " + utils.FormatXP(verdict.XP)
}

// Cancel flips the active giveaway inactive without drawing winners.
func (s *LifecycleScheduler) Cancel(ctx context.Context, guildID string) error {
	s.stopProcs(guildID)

	lock := s.locks.Get(guildID)
	lock.Lock()
	defer lock.Unlock()

	giveaway, err := s.giveawayRepo.FindActive(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return ErrNoActiveGiveaway
	}
	if err != nil {
		return fmt.Errorf("failed to find active giveaway: %w", err)
	}

	cancelled, err := s.giveawayRepo.CancelIfActive(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to cancel giveaway: %w", err)
	}
	if !cancelled {
		return ErrNoActiveGiveaway
	}

	giveaway.IsActive = false
	s.render(ctx, giveaway)

	slog.Info("Giveaway cancelled", "guildId", guildID)
	return nil
}

// Reroll draws winners again from the latest giveaway's eligible entrants,
// excluding the initial winners. The record is not modified.
func (s *LifecycleScheduler) Reroll(ctx context.Context, guildID string) ([]string, error) {
	giveaway, err := s.giveawayRepo.FindLatest(ctx, guildID)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoGiveaway
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find giveaway: %w", err)
	}

	initial := make(map[string]bool, len(giveaway.InitialWinners))
	for _, id := range giveaway.InitialWinners {
		initial[id] = true
	}

	var pool []string
	for _, id := range giveaway.EligibleEntrants {
		if !initial[id] {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoRerollPool
	}

	recent, err := s.giveawayRepo.RecentWinners(ctx, guildID, RecentWinnerLookback)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent winners: %w", err)
	}

	winners := SelectWinners(pool, giveaway.NumWinners, recent)

	var b strings.Builder
	b.WriteString("Reroll Winners:\n")
	for _, id := range winners {
		b.WriteString(id)
		b.WriteString("\n")
	}
	s.announce(ctx, guildID, b.String())

	slog.Info("Giveaway rerolled", "guildId", guildID, "winners", len(winners))
	return winners, nil
}

// Reconcile re-arms the scheduler for every giveaway persisted as active.
// Records whose deadline already passed are closed immediately rather than
// waiting for another tick.
func (s *LifecycleScheduler) Reconcile(ctx context.Context) error {
	giveaways, err := s.giveawayRepo.FindAllActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active giveaways: %w", err)
	}

	now := time.Now()
	for _, giveaway := range giveaways {
		if giveaway.Expired(now) {
			slog.Info("Closing expired giveaway on startup", "guildId", giveaway.GuildID, "endsAt", giveaway.EndsAt)
			if err := s.Close(ctx, giveaway.GuildID); err != nil && err != ErrNoActiveGiveaway {
				slog.Error("Startup close failed", "error", err, "guildId", giveaway.GuildID)
			}
			continue
		}
		s.Track(giveaway)
	}

	slog.Info("Scheduler reconciled", "active", len(giveaways))
	return nil
}

// Shutdown tears down every tracked process. Persisted records stay open for
// the next Reconcile.
func (s *LifecycleScheduler) Shutdown() {
	s.mu.Lock()
	procs := s.procs
	s.procs = make(map[string]*guildProcs)
	s.mu.Unlock()

	for _, p := range procs {
		p.endTimer.Stop()
		close(p.stopRefresh)
	}
}

func (s *LifecycleScheduler) render(ctx context.Context, giveaway *models.Giveaway) {
	if err := s.renderer.Render(ctx, giveaway); err != nil {
		slog.Error("Failed to render giveaway", "error", err, "guildId", giveaway.GuildID)
	}
}

func (s *LifecycleScheduler) announce(ctx context.Context, guildID, text string) {
	if err := s.announcer.Announce(ctx, guildID, text); err != nil {
		slog.Error("Failed to announce", "error", err, "guildId", guildID)
	}
}
