package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/internal/repositories"
	"github.com/gwlabs/giveaway-backend/pkg/partnerapi"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure eligibilityService implements EligibilityService
var _ EligibilityService = (*eligibilityService)(nil)

// EligibilityService resolves a partner username to an entry verdict.
type EligibilityService interface {
	Resolve(ctx context.Context, username string, minXP int) (*models.Verdict, error)
}

type eligibilityService struct {
	cacheRepo repositories.EligibilityCacheRepository
	lookup    partnerapi.Lookup
}

// NewEligibilityService creates a new EligibilityService
func NewEligibilityService(cacheRepo repositories.EligibilityCacheRepository, lookup partnerapi.Lookup) EligibilityService {
	return &eligibilityService{
		cacheRepo: cacheRepo,
		lookup:    lookup,
	}
}

// Resolve checks a username against a minimum XP threshold. When a cached
// XP value already meets the threshold the verdict comes straight from the
// cache; the partner site is not re-queried. Note this can keep serving a
// stale under-code flag for a user who once cleared a lower threshold —
// deliberate, it keeps repeat checks off the partner API. An unreachable
// partner API yields VerdictManualCheck with last-known values and leaves
// the cache untouched.
func (s *eligibilityService) Resolve(ctx context.Context, username string, minXP int) (*models.Verdict, error) {
	cached, err := s.cacheRepo.FindByUsername(ctx, username)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to read eligibility cache: %w", err)
	}

	if cached != nil && cached.LastXP >= minXP {
		if cached.LastUnderCode {
			return &models.Verdict{
				Status:    models.VerdictAllowed,
				XP:        cached.LastXP,
				UnderCode: true,
			}, nil
		}
		return &models.Verdict{
			Status:    models.VerdictBlocked,
			XP:        cached.LastXP,
			UnderCode: false,
			Reason:    "Not under the required code",
		}, nil
	}

	result, err := s.lookup.LookupUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("partner lookup failed: %w", err)
	}

	switch result.Status {
	case partnerapi.StatusNotFound:
		return &models.Verdict{
			Status: models.VerdictBlocked,
			Reason: "Username not found. Try a different name.",
		}, nil

	case partnerapi.StatusUnavailable:
		verdict := &models.Verdict{Status: models.VerdictManualCheck}
		if cached != nil {
			verdict.XP = cached.LastXP
			verdict.UnderCode = cached.LastUnderCode
		}
		slog.Warn("Partner API unavailable, degrading to manual check", "username", username)
		return verdict, nil
	}

	entry := &models.EligibilityCacheEntry{
		Username:      username,
		LastXP:        result.XP,
		LastUnderCode: result.UnderCode,
		LastCheckedAt: time.Now(),
	}
	if err := s.cacheRepo.Upsert(ctx, entry); err != nil {
		// Cache write failure doesn't invalidate the fresh verdict.
		slog.Error("Failed to upsert eligibility cache entry", "error", err, "username", username)
	}

	return verdictFromFresh(result.XP, result.UnderCode, minXP), nil
}

func verdictFromFresh(xp int, underCode bool, minXP int) *models.Verdict {
	belowThreshold := xp < minXP

	var reason string
	switch {
	case belowThreshold && !underCode:
		reason = fmt.Sprintf("Not enough XP (%d/%d) and not under the required code", xp, minXP)
	case belowThreshold:
		reason = fmt.Sprintf("Not enough XP (%d/%d)", xp, minXP)
	case !underCode:
		reason = "Not under the required code"
	}

	status := models.VerdictAllowed
	if reason != "" {
		status = models.VerdictBlocked
	}
	return &models.Verdict{
		Status:    status,
		XP:        xp,
		UnderCode: underCode,
		Reason:    reason,
	}
}
