package ledger

import "errors"

var (
	ErrInvalidAmount      = errors.New("Amount must be a positive number")
	ErrInsufficientTokens = errors.New("Insufficient token balance")
	ErrSelfTransfer       = errors.New("Cannot transfer to the same holder")
	ErrNotAdmin           = errors.New("Only the admin can mint tokens")
)
