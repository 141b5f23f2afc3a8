package governance

import "errors"

// InvalidId
var ErrProposalNotFound = errors.New("Proposal not found")

// Unauthorized
var (
	ErrNotProposer = errors.New("Only the proposer can cancel this proposal")
	ErrNotAdmin    = errors.New("Only the admin can update parameters")
)

// InsufficientBalance
var (
	ErrBelowProposalThreshold = errors.New("Token balance below proposal threshold")
	ErrInsufficientTreasury   = errors.New("Requested amount exceeds treasury balance")
	ErrNoVotingWeight         = errors.New("No voting weight")
)

// InvalidState
var (
	ErrProposalNotActive      = errors.New("Proposal is not active")
	ErrProposalNotSucceeded   = errors.New("Proposal has not succeeded")
	ErrFundsAlreadyReleased   = errors.New("Funds already released")
	ErrProposalNotCancellable = errors.New("Proposal can no longer be cancelled")
)

// WindowViolation
var (
	ErrVotingClosed    = errors.New("Voting window has closed")
	ErrVotingStillOpen = errors.New("Voting window is still open")
)

// DuplicateAction
var ErrAlreadyVoted = errors.New("Holder has already voted on this proposal")

// InvalidArgument
var (
	ErrEmptyTitle        = errors.New("Title is required")
	ErrInvalidAmount     = errors.New("Amount must be a positive number")
	ErrQuorumOutOfRange  = errors.New("Quorum must be between 0 and 10000 basis points")
	ErrInvalidPeriod     = errors.New("Voting period must be positive")
	ErrInvalidThreshold  = errors.New("Proposal threshold must not be negative")
)
