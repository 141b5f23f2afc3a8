package registry

import (
	"context"
	"time"

	"agora-backend/internal/models"

	"gorm.io/gorm"
)

// Service is the achievement registry. Records are minted once per funded
// proposal and immutable afterwards. Engine is the only identity allowed to
// mint; it is set at construction and never changes.
type Service struct {
	DB     *gorm.DB
	Engine string
}

// Mint creates a new achievement record inside the caller's transaction so a
// failed execution unwinds the mint. Returns the new sequential token id.
func (s *Service) Mint(tx *gorm.DB, caller, recipient, title, metadataRef string, now time.Time) (uint64, error) {
	if caller != s.Engine {
		return 0, ErrNotEngine
	}
	if recipient == "" {
		return 0, ErrEmptyRecipient
	}

	record := models.Achievement{
		Title:       title,
		Creator:     recipient,
		MetadataRef: metadataRef,
		MintedAt:    now,
	}
	if err := tx.Create(&record).Error; err != nil {
		return 0, err
	}
	return record.TokenID, nil
}

// GetByID returns one achievement record.
func (s *Service) GetByID(ctx context.Context, tokenID uint64) (*models.Achievement, error) {
	var record models.Achievement
	err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrAchievementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByOwner returns all records minted to a holder, oldest first.
func (s *Service) ListByOwner(ctx context.Context, holder string) ([]models.Achievement, error) {
	var records []models.Achievement
	err := s.DB.WithContext(ctx).Where("creator = ?", holder).Order("token_id asc").Find(&records).Error
	return records, err
}
