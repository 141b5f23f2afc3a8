package models

import (
	"time"

	"gorm.io/datatypes"
)

// GovernanceEvent is the append-only notification log. Rows are written
// inside the same transaction as the state change they describe.
type GovernanceEvent struct {
	EventID    uint64         `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(40);index;not null" json:"event_type"`
	ProposalID *uint64        `gorm:"column:proposal_id;index" json:"proposal_id"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (GovernanceEvent) TableName() string {
	return "GovernanceEvents"
}
