package models

import "time"

// Achievement is the immutable record minted to a proposer when their
// proposal is funded. Token ids are sequential and assigned at mint time.
type Achievement struct {
	TokenID     uint64    `gorm:"column:token_id;primaryKey;autoIncrement" json:"token_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Creator     string    `gorm:"column:creator;index;not null" json:"creator"`
	MetadataRef string    `gorm:"column:metadata_ref" json:"metadata_ref"`
	MintedAt    time.Time `gorm:"column:minted_at;not null" json:"minted_at"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Achievement) TableName() string {
	return "Achievements"
}
