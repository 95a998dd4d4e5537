package models

import "time"

// EligibilityCacheEntry is the last observed partner-site state for a
// username. Entries are upserted whole after a successful lookup and are
// never expired.
type EligibilityCacheEntry struct {
	Username      string    `bson:"username" json:"username"`
	LastXP        int       `bson:"lastXp" json:"lastXp"`
	LastUnderCode bool      `bson:"lastUnderCode" json:"lastUnderCode"`
	LastCheckedAt time.Time `bson:"lastCheckedAt" json:"lastCheckedAt"`
}

// VerdictStatus classifies the outcome of an eligibility resolution.
type VerdictStatus string

const (
	VerdictAllowed VerdictStatus = "ALLOWED"
	VerdictBlocked VerdictStatus = "BLOCKED"
	// VerdictManualCheck means the partner API was unreachable and a human
	// has to verify the entrant instead. Not a failure.
	VerdictManualCheck VerdictStatus = "MANUAL_CHECK_REQUIRED"
)

// Verdict is the result of resolving a username against a giveaway's
// minimum XP threshold. XP and UnderCode carry the freshest known values,
// which for VerdictManualCheck are whatever the cache held (zero if nothing
// was cached).
type Verdict struct {
	Status    VerdictStatus `json:"status"`
	XP        int           `json:"xp"`
	UnderCode bool          `json:"underCode"`
	Reason    string        `json:"reason,omitempty"`
}
