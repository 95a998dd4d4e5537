package models

// Template is a saved set of giveaway settings for a guild, applied by the
// quick-open flow.
type Template struct {
	GuildID                string       `bson:"guildId" json:"guildId"`
	TemplateID             string       `bson:"templateId" json:"templateId"`
	Name                   string       `bson:"name" json:"name"`
	Type                   GiveawayType `bson:"giveawayType" json:"giveawayType"`
	DurationMinutes        int          `bson:"durationMinutes" json:"durationMinutes"`
	NumWinners             int          `bson:"numWinners" json:"numWinners"`
	AutoCheck              bool         `bson:"autoCheck" json:"autoCheck"`
	MinXP                  int          `bson:"minXp" json:"minXp"`
	Amount                 *float64     `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency               string       `bson:"currency,omitempty" json:"currency,omitempty"`
	WithMember             string       `bson:"withMember,omitempty" json:"withMember,omitempty"`
	AdditionalRequirements string       `bson:"additionalRequirements,omitempty" json:"additionalRequirements,omitempty"`
}
