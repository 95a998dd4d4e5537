package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GiveawayType is the closed set of giveaway variants. Custom relaxes the
// field requirements enforced at creation.
type GiveawayType string

const (
	GiveawayTypeBuySplit GiveawayType = "50/50 Buy Split"
	GiveawayTypeTip      GiveawayType = "Tip"
	GiveawayTypeCustom   GiveawayType = "Custom"
)

// ValidGiveawayType reports whether t is one of the known giveaway types.
func ValidGiveawayType(t GiveawayType) bool {
	switch t {
	case GiveawayTypeBuySplit, GiveawayTypeTip, GiveawayTypeCustom:
		return true
	}
	return false
}

// Giveaway represents one giveaway instance, active or historical. At most
// one record per guild has IsActive=true at any time.
type Giveaway struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	GuildID                string             `bson:"guildId" json:"guildId"`
	ChannelID              string             `bson:"channelId" json:"channelId"`
	MessageID              string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Type                   GiveawayType       `bson:"giveawayType" json:"giveawayType"`
	MinXP                  int                `bson:"minXp" json:"minXp"`
	AdditionalRequirements string             `bson:"additionalRequirements,omitempty" json:"additionalRequirements,omitempty"`
	Amount                 *float64           `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency               string             `bson:"currency,omitempty" json:"currency,omitempty"`
	AutoCheck              bool               `bson:"autoCheck" json:"autoCheck"`
	HostedBy               string             `bson:"hostedBy" json:"hostedBy"`
	WithMember             string             `bson:"withMember,omitempty" json:"withMember,omitempty"`
	NumWinners             int                `bson:"numWinners" json:"numWinners"`
	EligibleEntrants       []string           `bson:"eligibleEntrants" json:"eligibleEntrants"`
	IneligibleEntrants     []string           `bson:"ineligibleEntrants" json:"ineligibleEntrants"`
	InitialWinners         []string           `bson:"initialWinners" json:"initialWinners"`
	StartedAt              time.Time          `bson:"startedAt" json:"startedAt"`
	DurationMinutes        int                `bson:"durationMinutes" json:"durationMinutes"`
	EndsAt                 time.Time          `bson:"endsAt" json:"endsAt"`
	IsActive               bool               `bson:"isActive" json:"isActive"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasEntered reports whether userID already appears in either entrant list.
func (g *Giveaway) HasEntered(userID string) bool {
	for _, id := range g.EligibleEntrants {
		if id == userID {
			return true
		}
	}
	for _, id := range g.IneligibleEntrants {
		if id == userID {
			return true
		}
	}
	return false
}

// Expired reports whether the deadline has passed at the given instant.
func (g *Giveaway) Expired(now time.Time) bool {
	return !g.EndsAt.After(now)
}
