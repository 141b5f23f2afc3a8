package models

import "time"

// ProposalState is the lifecycle state of a proposal.
type ProposalState string

const (
	// ProposalStatePending is reserved for a future delayed-start proposal
	// type; creation currently assigns Active directly.
	ProposalStatePending   ProposalState = "pending"
	ProposalStateActive    ProposalState = "active"
	ProposalStateSucceeded ProposalState = "succeeded"
	ProposalStateDefeated  ProposalState = "defeated"
	ProposalStateExecuted  ProposalState = "executed"
	ProposalStateCancelled ProposalState = "cancelled"
)

// Proposal is an append-only governance record. Ids are sequential and never
// reused; rows are never deleted.
type Proposal struct {
	ProposalID      uint64        `gorm:"column:proposal_id;primaryKey;autoIncrement" json:"proposal_id"`
	Proposer        string        `gorm:"column:proposer;index;not null" json:"proposer"`
	Title           string        `gorm:"column:title;not null" json:"title"`
	Description     string        `gorm:"column:description" json:"description"`
	MetadataRef     string        `gorm:"column:metadata_ref" json:"metadata_ref"`
	RequestedAmount int64         `gorm:"column:requested_amount;not null" json:"requested_amount"`
	VotingStartsAt  time.Time     `gorm:"column:voting_starts_at;not null" json:"voting_starts_at"`
	VotingEndsAt    time.Time     `gorm:"column:voting_ends_at;not null" json:"voting_ends_at"`
	ForVotes        int64         `gorm:"column:for_votes;not null;default:0" json:"for_votes"`
	AgainstVotes    int64         `gorm:"column:against_votes;not null;default:0" json:"against_votes"`
	State           ProposalState `gorm:"column:state;type:varchar(20);not null" json:"state"`
	FundsReleased   bool          `gorm:"column:funds_released;not null;default:false" json:"funds_released"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (Proposal) TableName() string {
	return "Proposals"
}
