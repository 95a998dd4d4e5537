package services

import "errors"

// Conflict errors: the operation clashed with the current lifecycle state.
// Rejected synchronously, nothing is mutated.
var (
	ErrGiveawayActive   = errors.New("a giveaway is already active for this guild")
	ErrNoActiveGiveaway = errors.New("no active giveaway for this guild")
	ErrNoGiveaway       = errors.New("no giveaway found for this guild")
	ErrNoRerollPool     = errors.New("no eligible entrants available for reroll")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoMapping        = errors.New("no partner username mapped for this user")
	ErrDraftExpired     = errors.New("draft expired or not found")
)

// ValidationError rejects malformed creation parameters with a reason the
// caller can show and retry on.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a creation-parameter validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
