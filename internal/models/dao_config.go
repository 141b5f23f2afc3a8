package models

import "time"

// DAOConfig is the singleton governance parameter row. Changes apply only to
// proposals created or finalized afterwards; each proposal stores its own
// voting window computed at creation.
type DAOConfig struct {
	ID                  uint64    `gorm:"column:id;primaryKey" json:"id"`
	ProposalThreshold   int64     `gorm:"column:proposal_threshold;not null" json:"proposal_threshold"`
	VotingPeriodSeconds int64     `gorm:"column:voting_period_seconds;not null" json:"voting_period_seconds"`
	QuorumBps           int64     `gorm:"column:quorum_bps;not null" json:"quorum_bps"`
	AdminAddress        string    `gorm:"column:admin_address;not null" json:"admin_address"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (DAOConfig) TableName() string {
	return "DAOConfig"
}
