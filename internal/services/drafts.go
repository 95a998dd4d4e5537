package services

import (
	"time"

	"github.com/FloatTech/ttl"
	"github.com/google/uuid"
	"github.com/gwlabs/giveaway-backend/internal/models"
)

// GiveawayDraft holds a fully resolved set of creation parameters awaiting
// an explicit confirm. Runback and the interactive start flow both park
// their parameters here.
type GiveawayDraft struct {
	GuildID                string              `json:"guildId"`
	ChannelID              string              `json:"channelId"`
	Type                   models.GiveawayType `json:"giveawayType"`
	MinXP                  int                 `json:"minXp"`
	AdditionalRequirements string              `json:"additionalRequirements,omitempty"`
	Amount                 *float64            `json:"amount,omitempty"`
	Currency               string              `json:"currency"`
	AutoCheck              bool                `json:"autoCheck"`
	HostedBy               string              `json:"hostedBy"`
	WithMember             string              `json:"withMember,omitempty"`
	NumWinners             int                 `json:"numWinners"`
	DurationMinutes        int                 `json:"durationMinutes"`
}

// DraftStore keeps pending drafts in memory with an expiry matching the
// original confirmation window. An unconfirmed draft simply ages out.
type DraftStore struct {
	cache *ttl.Cache[string, *GiveawayDraft]
}

// NewDraftStore creates a new DraftStore with the given draft lifetime.
func NewDraftStore(lifetime time.Duration) *DraftStore {
	return &DraftStore{
		cache: ttl.NewCache[string, *GiveawayDraft](lifetime),
	}
}

// Put stores a draft and returns its id.
func (d *DraftStore) Put(draft *GiveawayDraft) string {
	id := uuid.New().String()
	d.cache.Set(id, draft)
	return id
}

// Take removes and returns the draft with the given id, or ErrDraftExpired
// when it never existed or has aged out.
func (d *DraftStore) Take(id string) (*GiveawayDraft, error) {
	draft := d.cache.Get(id)
	if draft == nil {
		return nil, ErrDraftExpired
	}
	d.cache.Delete(id)
	return draft, nil
}
