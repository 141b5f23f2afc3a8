package registry

import "errors"

var (
	ErrNotEngine           = errors.New("Only the governance engine can mint achievements")
	ErrAchievementNotFound = errors.New("Achievement not found")
	ErrEmptyRecipient      = errors.New("Recipient is required")
)
