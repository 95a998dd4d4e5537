package models

// ServerSettings holds per-guild defaults for the quick-open flow. Nil
// pointers mean "not set"; the engine falls back to hardcoded defaults.
type ServerSettings struct {
	GuildID                string        `bson:"guildId" json:"guildId"`
	DefaultType            *GiveawayType `bson:"defaultType,omitempty" json:"defaultType,omitempty"`
	DefaultDurationMinutes *int          `bson:"defaultDurationMinutes,omitempty" json:"defaultDurationMinutes,omitempty"`
	DefaultCurrency        *string       `bson:"defaultCurrency,omitempty" json:"defaultCurrency,omitempty"`
	DefaultWinners         *int          `bson:"defaultWinners,omitempty" json:"defaultWinners,omitempty"`
	DefaultAutoCheck       *bool         `bson:"defaultAutoCheck,omitempty" json:"defaultAutoCheck,omitempty"`
}
