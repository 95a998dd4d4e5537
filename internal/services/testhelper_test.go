package services

import (
	"context"
	"sort"
	"sync"

	"github.com/gwlabs/giveaway-backend/internal/models"
	"github.com/gwlabs/giveaway-backend/pkg/partnerapi"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeGiveawayRepo is an in-memory GiveawayRepository with the same
// conditional-update semantics as the mongo implementation.
type fakeGiveawayRepo struct {
	mu      sync.Mutex
	records []*models.Giveaway
}

func newFakeGiveawayRepo() *fakeGiveawayRepo {
	return &fakeGiveawayRepo{}
}

func (r *fakeGiveawayRepo) Create(ctx context.Context, giveaway *models.Giveaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if giveaway.EligibleEntrants == nil {
		giveaway.EligibleEntrants = []string{}
	}
	if giveaway.IneligibleEntrants == nil {
		giveaway.IneligibleEntrants = []string{}
	}
	if giveaway.InitialWinners == nil {
		giveaway.InitialWinners = []string{}
	}
	cp := *giveaway
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeGiveawayRepo) activeLocked(guildID string) *models.Giveaway {
	for _, g := range r.records {
		if g.GuildID == guildID && g.IsActive {
			return g
		}
	}
	return nil
}

func copyGiveaway(g *models.Giveaway) *models.Giveaway {
	cp := *g
	cp.EligibleEntrants = append([]string{}, g.EligibleEntrants...)
	cp.IneligibleEntrants = append([]string{}, g.IneligibleEntrants...)
	cp.InitialWinners = append([]string{}, g.InitialWinners...)
	return &cp
}

func (r *fakeGiveawayRepo) FindActive(ctx context.Context, guildID string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g := r.activeLocked(guildID); g != nil {
		return copyGiveaway(g), nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeGiveawayRepo) FindLatest(ctx context.Context, guildID string) (*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Giveaway
	for _, g := range r.records {
		if g.GuildID != guildID {
			continue
		}
		if latest == nil || g.StartedAt.After(latest.StartedAt) {
			latest = g
		}
	}
	if latest == nil {
		return nil, mongo.ErrNoDocuments
	}
	return copyGiveaway(latest), nil
}

func (r *fakeGiveawayRepo) FindAllActive(ctx context.Context) ([]*models.Giveaway, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Giveaway
	for _, g := range r.records {
		if g.IsActive {
			out = append(out, copyGiveaway(g))
		}
	}
	return out, nil
}

func (r *fakeGiveawayRepo) SetMessageID(ctx context.Context, guildID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g := r.activeLocked(guildID); g != nil {
		g.MessageID = messageID
	}
	return nil
}

func (r *fakeGiveawayRepo) AppendEligible(ctx context.Context, guildID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.activeLocked(guildID)
	if g == nil {
		return false, nil
	}
	g.EligibleEntrants = append(g.EligibleEntrants, userID)
	return true, nil
}

func (r *fakeGiveawayRepo) AppendIneligible(ctx context.Context, guildID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.activeLocked(guildID)
	if g == nil {
		return false, nil
	}
	g.IneligibleEntrants = append(g.IneligibleEntrants, userID)
	return true, nil
}

func (r *fakeGiveawayRepo) FinalizeIfActive(ctx context.Context, guildID string, winners []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.activeLocked(guildID)
	if g == nil {
		return false, nil
	}
	if winners == nil {
		winners = []string{}
	}
	g.InitialWinners = winners
	g.IsActive = false
	return true, nil
}

func (r *fakeGiveawayRepo) CancelIfActive(ctx context.Context, guildID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.activeLocked(guildID)
	if g == nil {
		return false, nil
	}
	g.IsActive = false
	return true, nil
}

func (r *fakeGiveawayRepo) RecentWinners(ctx context.Context, guildID string, lookback int) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var past []*models.Giveaway
	for _, g := range r.records {
		if g.GuildID == guildID && !g.IsActive {
			past = append(past, g)
		}
	}
	sort.Slice(past, func(i, j int) bool { return past[i].EndsAt.After(past[j].EndsAt) })
	if len(past) > lookback {
		past = past[:lookback]
	}
	recent := make(map[string]bool)
	for _, g := range past {
		for _, id := range g.InitialWinners {
			recent[id] = true
		}
	}
	return recent, nil
}

// fakeCacheRepo is an in-memory EligibilityCacheRepository that counts
// writes.
type fakeCacheRepo struct {
	mu      sync.Mutex
	entries map[string]*models.EligibilityCacheEntry
	upserts int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]*models.EligibilityCacheEntry)}
}

func (r *fakeCacheRepo) FindByUsername(ctx context.Context, username string) (*models.EligibilityCacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[username]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *entry
	return &cp, nil
}

func (r *fakeCacheRepo) Upsert(ctx context.Context, entry *models.EligibilityCacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.Username] = &cp
	r.upserts++
	return nil
}

// fakeUserMapRepo is an in-memory UserMapRepository.
type fakeUserMapRepo struct {
	mu       sync.Mutex
	mappings map[string]*models.UserMapping
}

func newFakeUserMapRepo() *fakeUserMapRepo {
	return &fakeUserMapRepo{mappings: make(map[string]*models.UserMapping)}
}

func (r *fakeUserMapRepo) Upsert(ctx context.Context, mapping *models.UserMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *mapping
	r.mappings[mapping.UserID] = &cp
	return nil
}

func (r *fakeUserMapRepo) FindByUserID(ctx context.Context, userID string) (*models.UserMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mapping, ok := r.mappings[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *mapping
	return &cp, nil
}

func (r *fakeUserMapRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mappings, userID)
	return nil
}

func (r *fakeUserMapRepo) FindAll(ctx context.Context) ([]*models.UserMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserMapping
	for _, m := range r.mappings {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// fakeTemplateRepo is an in-memory TemplateRepository keyed by guild+name.
type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*models.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]*models.Template)}
}

func templateKey(guildID, name string) string { return guildID + "/" + name }

func (r *fakeTemplateRepo) Create(ctx context.Context, template *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *template
	r.templates[templateKey(template.GuildID, template.Name)] = &cp
	return nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, template *models.Template) error {
	return r.Create(ctx, template)
}

func (r *fakeTemplateRepo) FindByName(ctx context.Context, guildID, name string) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[templateKey(guildID, name)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *template
	return &cp, nil
}

func (r *fakeTemplateRepo) FindAll(ctx context.Context, guildID string) ([]*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Template
	for _, t := range r.templates {
		if t.GuildID == guildID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) DeleteByName(ctx context.Context, guildID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, templateKey(guildID, name))
	return nil
}

// fakeSettingsRepo is an in-memory ServerSettingsRepository.
type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*models.ServerSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*models.ServerSettings)}
}

func (r *fakeSettingsRepo) Find(ctx context.Context, guildID string) (*models.ServerSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[guildID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.ServerSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings[settings.GuildID] = &cp
	return nil
}

// stubLookup serves canned partner lookup results.
type stubLookup struct {
	mu       sync.Mutex
	results  map[string]partnerapi.LookupResult
	fallback partnerapi.LookupResult
	calls    int
}

func newStubLookup() *stubLookup {
	return &stubLookup{
		results:  make(map[string]partnerapi.LookupResult),
		fallback: partnerapi.LookupResult{Status: partnerapi.StatusNotFound},
	}
}

func (s *stubLookup) LookupUser(ctx context.Context, username string) (partnerapi.LookupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if result, ok := s.results[username]; ok {
		return result, nil
	}
	return s.fallback, nil
}

func (s *stubLookup) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingGateway captures renders and announcements.
type recordingGateway struct {
	mu            sync.Mutex
	renders       int
	announcements []string
}

func (g *recordingGateway) Render(ctx context.Context, giveaway *models.Giveaway) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renders++
	return nil
}

func (g *recordingGateway) Announce(ctx context.Context, guildID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.announcements = append(g.announcements, text)
	return nil
}

func (g *recordingGateway) renderCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renders
}

func (g *recordingGateway) announced() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.announcements...)
}
