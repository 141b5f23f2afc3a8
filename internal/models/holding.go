package models

import "time"

// Holding is one holder's token balance. Balances are integer base units;
// vote weight is read from here live at cast time.
type Holding struct {
	HoldingID uint64    `gorm:"column:holding_id;primaryKey;autoIncrement" json:"holding_id"`
	Holder    string    `gorm:"column:holder;uniqueIndex;not null" json:"holder"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Holding) TableName() string {
	return "Holdings"
}

// TokenSupply is a singleton row tracking total supply so quorum math reads
// a scalar instead of summing Holdings.
type TokenSupply struct {
	ID          uint64    `gorm:"column:id;primaryKey" json:"id"`
	TotalSupply int64     `gorm:"column:total_supply;not null;default:0" json:"total_supply"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (TokenSupply) TableName() string {
	return "TokenSupply"
}
