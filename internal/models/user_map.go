package models

import "time"

// UserMapping links a chat-platform user id to a partner-site username.
// One mapping per user id, latest write wins.
type UserMapping struct {
	UserID          string    `bson:"userId" json:"userId"`
	PartnerUsername string    `bson:"partnerUsername" json:"partnerUsername"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
