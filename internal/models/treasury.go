package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TreasuryEntry types.
const (
	TreasuryEntryDeposit      = "deposit"
	TreasuryEntryReceive      = "receive"
	TreasuryEntryDisbursement = "disbursement"
)

// TreasuryState is the singleton pool balance. Decreased only by proposal
// execution; never negative.
type TreasuryState struct {
	ID        uint64    `gorm:"column:id;primaryKey" json:"id"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TreasuryState) TableName() string {
	return "TreasuryState"
}

// TreasuryEntry is an append-only record of every value movement in or out
// of the pool.
type TreasuryEntry struct {
	EntryID    uuid.UUID `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	Type       string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Holder     string    `gorm:"column:holder;not null" json:"holder"`
	Amount     int64     `gorm:"column:amount;not null" json:"amount"`
	ProposalID *uint64   `gorm:"column:proposal_id" json:"proposal_id"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (TreasuryEntry) TableName() string {
	return "TreasuryEntries"
}

func (e *TreasuryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}
