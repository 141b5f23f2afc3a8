package models

import "time"

// Vote records one holder's vote on one proposal. Write-once: the composite
// unique index rejects a second vote from the same holder.
type Vote struct {
	VoteID     uint64    `gorm:"column:vote_id;primaryKey;autoIncrement" json:"vote_id"`
	ProposalID uint64    `gorm:"column:proposal_id;uniqueIndex:idx_proposal_voter;not null" json:"proposal_id"`
	Voter      string    `gorm:"column:voter;uniqueIndex:idx_proposal_voter;not null" json:"voter"`
	Support    bool      `gorm:"column:support;not null" json:"support"`
	Weight     int64     `gorm:"column:weight;not null" json:"weight"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Vote) TableName() string {
	return "Votes"
}
