package services

import (
	"context"
	"testing"
	"time"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/pkg/partnerapi"
)

type engineFixture struct {
	repo      *fakeGiveawayRepo
	templates *fakeTemplateRepo
	settings  *fakeSettingsRepo
	userMap   *fakeUserMapRepo
	lookup    *stubLookup
	gateway   *recordingGateway
	drafts    *DraftStore
	svc       GiveawayService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	repo := newFakeGiveawayRepo()
	templates := newFakeTemplateRepo()
	settings := newFakeSettingsRepo()
	userMap := newFakeUserMapRepo()
	lookup := newStubLookup()
	gateway := &recordingGateway{}
	locks := NewGuildLocks()
	eligibility := NewEligibilityService(newFakeCacheRepo(), lookup)
	sched := NewLifecycleScheduler(repo, userMap, eligibility, gateway, gateway, locks, 10*time.Millisecond)
	t.Cleanup(sched.Shutdown)
	drafts := NewDraftStore(time.Minute)
	svc := NewGiveawayService(repo, templates, settings, userMap, eligibility, sched, gateway, drafts)
	return &engineFixture{
		repo:      repo,
		templates: templates,
		settings:  settings,
		userMap:   userMap,
		lookup:    lookup,
		gateway:   gateway,
		drafts:    drafts,
		svc:       svc,
	}
}

func validOpenParams(guildID string) *OpenParams {
	amount := 50.0
	return &OpenParams{
		GuildID:         guildID,
		ChannelID:       "chan1",
		Type:            models.GiveawayTypeBuySplit,
		MinXP:           3000,
		Amount:          &amount,
		Currency:        "CAD",
		AutoCheck:       true,
		HostedBy:        "host1",
		NumWinners:      1,
		DurationMinutes: 2,
	}
}

func TestOpenCreatesActiveGiveaway(t *testing.T) {
	f := newEngineFixture(t)

	g, err := f.svc.Open(context.Background(), validOpenParams("guild1"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !g.IsActive {
		t.Fatal("new giveaway not active")
	}
	if got := g.EndsAt.Sub(g.StartedAt); got != 2*time.Minute {
		t.Fatalf("deadline = startedAt + %v, want 2m", got)
	}
	if f.gateway.renderCount() != 1 {
		t.Fatalf("expected initial render, got %d", f.gateway.renderCount())
	}
}

func TestOpenRejectsWhileActive(t *testing.T) {
	f := newEngineFixture(t)

	if _, err := f.svc.Open(context.Background(), validOpenParams("guild1")); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := f.svc.Open(context.Background(), validOpenParams("guild1")); err != ErrGiveawayActive {
		t.Fatalf("expected ErrGiveawayActive, got %v", err)
	}
}

func TestOpenIndependentGuilds(t *testing.T) {
	f := newEngineFixture(t)

	if _, err := f.svc.Open(context.Background(), validOpenParams("guild1")); err != nil {
		t.Fatalf("guild1 Open: %v", err)
	}
	if _, err := f.svc.Open(context.Background(), validOpenParams("guild2")); err != nil {
		t.Fatalf("guild2 Open: %v", err)
	}
}

func TestOpenValidation(t *testing.T) {
	f := newEngineFixture(t)
	amount := 50.0

	tests := []struct {
		name   string
		mutate func(*OpenParams)
	}{
		{"unknown type", func(p *OpenParams) { p.Type = "Mystery" }},
		{"unknown currency", func(p *OpenParams) { p.Currency = "EUR" }},
		{"zero winners", func(p *OpenParams) { p.NumWinners = 0 }},
		{"zero duration", func(p *OpenParams) { p.DurationMinutes = 0 }},
		{"threshold without amount", func(p *OpenParams) { p.Amount = nil }},
		{"amount without threshold or requirements", func(p *OpenParams) {
			p.MinXP = 0
			p.Amount = &amount
			p.AdditionalRequirements = ""
		}},
		{"non-custom without amount or requirements", func(p *OpenParams) {
			p.MinXP = 0
			p.Amount = nil
			p.AdditionalRequirements = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validOpenParams("guild-" + tt.name)
			tt.mutate(params)
			_, err := f.svc.Open(context.Background(), params)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestOpenCustomTypeRelaxesRequirements(t *testing.T) {
	f := newEngineFixture(t)

	params := validOpenParams("guild1")
	params.Type = models.GiveawayTypeCustom
	params.MinXP = 0
	params.Amount = nil
	params.AdditionalRequirements = ""

	if _, err := f.svc.Open(context.Background(), params); err != nil {
		t.Fatalf("Open custom: %v", err)
	}
}

func TestQuickOpenFromTemplate(t *testing.T) {
	f := newEngineFixture(t)
	amount := 100.0
	f.templates.templates[templateKey("guild1", "friday")] = &models.Template{
		GuildID:         "guild1",
		Name:            "friday",
		Type:            models.GiveawayTypeTip,
		DurationMinutes: 5,
		NumWinners:      3,
		AutoCheck:       true,
		MinXP:           10000,
		Amount:          &amount,
		Currency:        "USD",
	}

	g, err := f.svc.QuickOpen(context.Background(), &QuickOpenParams{
		GuildID:      "guild1",
		ChannelID:    "chan1",
		HostedBy:     "host1",
		TemplateName: "friday",
	})
	if err != nil {
		t.Fatalf("QuickOpen: %v", err)
	}
	if g.Type != models.GiveawayTypeTip || g.NumWinners != 3 || g.DurationMinutes != 5 || g.Currency != "USD" {
		t.Fatalf("template not applied: %+v", g)
	}
	if g.MinXP != 10000 || g.Amount == nil || *g.Amount != 100.0 {
		t.Fatalf("template details not applied: %+v", g)
	}
}

func TestQuickOpenUnknownTemplate(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.svc.QuickOpen(context.Background(), &QuickOpenParams{
		GuildID:      "guild1",
		ChannelID:    "chan1",
		HostedBy:     "host1",
		TemplateName: "missing",
	})
	if err != ErrTemplateNotFound {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestQuickOpenHardcodedFallbacks(t *testing.T) {
	f := newEngineFixture(t)
	amount := 20.0

	g, err := f.svc.QuickOpen(context.Background(), &QuickOpenParams{
		GuildID:   "guild1",
		ChannelID: "chan1",
		HostedBy:  "host1",
		Amount:    &amount,
		MinXP:     1000,
	})
	if err != nil {
		t.Fatalf("QuickOpen: %v", err)
	}
	if g.Type != models.GiveawayTypeBuySplit || g.DurationMinutes != 2 || g.Currency != "CAD" || g.NumWinners != 1 || !g.AutoCheck {
		t.Fatalf("fallback defaults not applied: %+v", g)
	}
}

func TestQuickOpenServerDefaults(t *testing.T) {
	f := newEngineFixture(t)
	typ := models.GiveawayTypeTip
	duration := 10
	currency := "NZD"
	winners := 2
	autoCheck := false
	f.settings.settings["guild1"] = &models.ServerSettings{
		GuildID:                "guild1",
		DefaultType:            &typ,
		DefaultDurationMinutes: &duration,
		DefaultCurrency:        &currency,
		DefaultWinners:         &winners,
		DefaultAutoCheck:       &autoCheck,
	}
	amount := 20.0

	g, err := f.svc.QuickOpen(context.Background(), &QuickOpenParams{
		GuildID:   "guild1",
		ChannelID: "chan1",
		HostedBy:  "host1",
		Amount:    &amount,
		MinXP:     1000,
	})
	if err != nil {
		t.Fatalf("QuickOpen: %v", err)
	}
	if g.Type != typ || g.DurationMinutes != 10 || g.Currency != "NZD" || g.NumWinners != 2 || g.AutoCheck {
		t.Fatalf("server defaults not applied: %+v", g)
	}
}

func TestRunbackDraftAndConfirm(t *testing.T) {
	f := newEngineFixture(t)

	params := validOpenParams("guild1")
	if _, err := f.svc.Open(context.Background(), params); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), "guild1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	draftID, draft, err := f.svc.PrepareRunback(context.Background(), "guild1", "chan2", "host2")
	if err != nil {
		t.Fatalf("PrepareRunback: %v", err)
	}
	if draft.Type != params.Type || draft.MinXP != params.MinXP || draft.NumWinners != params.NumWinners {
		t.Fatalf("draft settings differ from last giveaway: %+v", draft)
	}

	g, err := f.svc.ConfirmDraft(context.Background(), draftID)
	if err != nil {
		t.Fatalf("ConfirmDraft: %v", err)
	}
	if !g.IsActive || g.ChannelID != "chan2" || g.HostedBy != "host2" {
		t.Fatalf("confirmed giveaway wrong: %+v", g)
	}

	// The draft was consumed.
	if _, err := f.svc.ConfirmDraft(context.Background(), draftID); err != ErrDraftExpired {
		t.Fatalf("expected ErrDraftExpired on reuse, got %v", err)
	}
}

func TestRunbackRejectedWhileActive(t *testing.T) {
	f := newEngineFixture(t)
	if _, err := f.svc.Open(context.Background(), validOpenParams("guild1")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := f.svc.PrepareRunback(context.Background(), "guild1", "chan1", "host1"); err != ErrGiveawayActive {
		t.Fatalf("expected ErrGiveawayActive, got %v", err)
	}
}

func TestRunbackWithoutHistory(t *testing.T) {
	f := newEngineFixture(t)
	if _, _, err := f.svc.PrepareRunback(context.Background(), "guild1", "chan1", "host1"); err != ErrNoGiveaway {
		t.Fatalf("expected ErrNoGiveaway, got %v", err)
	}
}

func TestCheckByUsernameUsesZeroThreshold(t *testing.T) {
	f := newEngineFixture(t)
	f.lookup.results["alice"] = partnerapi.LookupResult{Status: partnerapi.StatusFound, XP: 5, UnderCode: true}

	result, err := f.svc.CheckByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("CheckByUsername: %v", err)
	}
	if result.Verdict.Status != models.VerdictAllowed {
		t.Fatalf("expected allowed at zero threshold, got %s (%s)", result.Verdict.Status, result.Verdict.Reason)
	}
}

func TestCheckByUserRequiresMapping(t *testing.T) {
	f := newEngineFixture(t)
	if _, err := f.svc.CheckByUser(context.Background(), "user1"); err != ErrNoMapping {
		t.Fatalf("expected ErrNoMapping, got %v", err)
	}

	f.userMap.mappings["user1"] = &models.UserMapping{UserID: "user1", PartnerUsername: "bob"}
	f.lookup.results["bob"] = partnerapi.LookupResult{Status: partnerapi.StatusFound, XP: 100, UnderCode: false}

	result, err := f.svc.CheckByUser(context.Background(), "user1")
	if err != nil {
		t.Fatalf("CheckByUser: %v", err)
	}
	if result.Username != "bob" {
		t.Fatalf("expected mapped username, got %q", result.Username)
	}
	if result.Verdict.Status != models.VerdictBlocked || result.Verdict.Reason != "Not under the required code" {
		t.Fatalf("unexpected verdict: %+v", result.Verdict)
	}
}
