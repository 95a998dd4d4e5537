package services

import (
	"context"
	"testing"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/pkg/partnerapi"
)

type entryFixture struct {
	repo    *fakeGiveawayRepo
	userMap *fakeUserMapRepo
	lookup  *stubLookup
	gateway *recordingGateway
	svc     EntryService
}

func newEntryFixture(t *testing.T, autoCheck bool) *entryFixture {
	t.Helper()
	repo := newFakeGiveawayRepo()
	userMap := newFakeUserMapRepo()
	lookup := newStubLookup()
	gateway := &recordingGateway{}
	eligibility := NewEligibilityService(newFakeCacheRepo(), lookup)
	svc := NewEntryService(repo, userMap, eligibility, gateway, NewGuildLocks())

	amount := 50.0
	err := repo.Create(context.Background(), &models.Giveaway{
		GuildID:         "guild1",
		ChannelID:       "chan1",
		Type:            models.GiveawayTypeBuySplit,
		MinXP:           3000,
		Amount:          &amount,
		AutoCheck:       autoCheck,
		NumWinners:      1,
		StartedAt:       time.Now(),
		DurationMinutes: 2,
		EndsAt:          time.Now().Add(2 * time.Minute),
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("create giveaway: %v", err)
	}

	return &entryFixture{repo: repo, userMap: userMap, lookup: lookup, gateway: gateway, svc: svc}
}

func TestEnterNoActiveGiveaway(t *testing.T) {
	svc := NewEntryService(newFakeGiveawayRepo(), newFakeUserMapRepo(),
		NewEligibilityService(newFakeCacheRepo(), newStubLookup()), &recordingGateway{}, NewGuildLocks())

	result, err := svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryNoActiveGiveaway {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryNoActiveGiveaway)
	}
}

func TestEnterAutoCheckOffAdmitsDirectly(t *testing.T) {
	f := newEntryFixture(t, false)

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryAdmitted {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAdmitted)
	}
	if f.lookup.callCount() != 0 {
		t.Fatalf("expected no eligibility lookup, got %d", f.lookup.callCount())
	}
	if f.gateway.renderCount() != 1 {
		t.Fatalf("expected 1 render, got %d", f.gateway.renderCount())
	}
}

func TestEnterNoMappingAdmitsDirectly(t *testing.T) {
	f := newEntryFixture(t, true)

	result, err := f.svc.Enter(context.Background(), "guild1", "unmapped")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryAdmitted {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAdmitted)
	}
	if f.lookup.callCount() != 0 {
		t.Fatalf("expected no eligibility lookup, got %d", f.lookup.callCount())
	}
}

func TestEnterAllowedVerdict(t *testing.T) {
	f := newEntryFixture(t, true)
	f.userMap.mappings["user1"] = &models.UserMapping{UserID: "user1", PartnerUsername: "alice"}
	f.lookup.results["alice"] = partnerapi.LookupResult{Status: partnerapi.StatusFound, XP: 5000, UnderCode: true}

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryAdmitted {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAdmitted)
	}

	g, _ := f.repo.FindActive(context.Background(), "guild1")
	if len(g.EligibleEntrants) != 1 || g.EligibleEntrants[0] != "user1" {
		t.Fatalf("eligible list = %v", g.EligibleEntrants)
	}
}

func TestEnterBlockedVerdict(t *testing.T) {
	f := newEntryFixture(t, true)
	f.userMap.mappings["user1"] = &models.UserMapping{UserID: "user1", PartnerUsername: "bob"}
	f.lookup.results["bob"] = partnerapi.LookupResult{Status: partnerapi.StatusFound, XP: 1000, UnderCode: true}

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryRejected {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryRejected)
	}
	if result.Reason != "Not enough XP (1000/3000)" {
		t.Fatalf("reason = %q", result.Reason)
	}

	g, _ := f.repo.FindActive(context.Background(), "guild1")
	if len(g.IneligibleEntrants) != 1 || len(g.EligibleEntrants) != 0 {
		t.Fatalf("lists = eligible %v ineligible %v", g.EligibleEntrants, g.IneligibleEntrants)
	}
	if f.gateway.renderCount() != 1 {
		t.Fatalf("expected 1 render, got %d", f.gateway.renderCount())
	}
}

func TestEnterUnavailableAdmitsPendingManualCheck(t *testing.T) {
	f := newEntryFixture(t, true)
	f.userMap.mappings["user1"] = &models.UserMapping{UserID: "user1", PartnerUsername: "carol"}
	f.lookup.results["carol"] = partnerapi.LookupResult{Status: partnerapi.StatusUnavailable}

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if result.Outcome != EntryAdmittedManualCheck {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAdmittedManualCheck)
	}

	g, _ := f.repo.FindActive(context.Background(), "guild1")
	if len(g.EligibleEntrants) != 1 {
		t.Fatalf("eligible list = %v", g.EligibleEntrants)
	}
}

func TestEnterIdempotent(t *testing.T) {
	f := newEntryFixture(t, false)

	if _, err := f.svc.Enter(context.Background(), "guild1", "user1"); err != nil {
		t.Fatalf("first Enter: %v", err)
	}
	rendersAfterFirst := f.gateway.renderCount()

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("second Enter: %v", err)
	}
	if result.Outcome != EntryAlreadyEntered {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAlreadyEntered)
	}
	if f.gateway.renderCount() != rendersAfterFirst {
		t.Fatalf("repeat entry triggered a render")
	}

	g, _ := f.repo.FindActive(context.Background(), "guild1")
	if len(g.EligibleEntrants) != 1 {
		t.Fatalf("eligible list = %v", g.EligibleEntrants)
	}
}

func TestEnterIdempotentAcrossIneligibleList(t *testing.T) {
	f := newEntryFixture(t, true)
	f.userMap.mappings["user1"] = &models.UserMapping{UserID: "user1", PartnerUsername: "bob"}
	f.lookup.results["bob"] = partnerapi.LookupResult{Status: partnerapi.StatusFound, XP: 100, UnderCode: false}

	if _, err := f.svc.Enter(context.Background(), "guild1", "user1"); err != nil {
		t.Fatalf("first Enter: %v", err)
	}
	renders := f.gateway.renderCount()

	result, err := f.svc.Enter(context.Background(), "guild1", "user1")
	if err != nil {
		t.Fatalf("second Enter: %v", err)
	}
	if result.Outcome != EntryAlreadyEntered {
		t.Fatalf("outcome = %s, want %s", result.Outcome, EntryAlreadyEntered)
	}
	if f.gateway.renderCount() != renders {
		t.Fatal("repeat entry should not re-render the giveaway")
	}

	g, _ := f.repo.FindActive(context.Background(), "guild1")
	if len(g.IneligibleEntrants) != 1 || len(g.EligibleEntrants) != 0 {
		t.Fatalf("lists = eligible %v ineligible %v", g.EligibleEntrants, g.IneligibleEntrants)
	}
}
