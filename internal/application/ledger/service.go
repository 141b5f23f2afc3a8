package ledger

import (
	"context"

	"agora-backend/internal/models"

	"gorm.io/gorm"
)

// Service is the balance ledger: per-holder token balances plus a total
// supply scalar. Balances are vote weight, read live at cast time.
type Service struct {
	DB    *gorm.DB
	Admin string
}

// BalanceOf returns the holder's balance; unknown holders have balance 0.
func (s *Service) BalanceOf(ctx context.Context, holder string) (int64, error) {
	return s.BalanceOfTx(s.DB.WithContext(ctx), holder)
}

// BalanceOfTx is BalanceOf against a caller-supplied transaction handle.
func (s *Service) BalanceOfTx(tx *gorm.DB, holder string) (int64, error) {
	var h models.Holding
	err := tx.Where("holder = ?", holder).First(&h).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Balance, nil
}

// TotalSupply returns the scalar total supply (0 before any mint).
func (s *Service) TotalSupply(ctx context.Context) (int64, error) {
	return s.TotalSupplyTx(s.DB.WithContext(ctx))
}

// TotalSupplyTx is TotalSupply against a caller-supplied transaction handle.
func (s *Service) TotalSupplyTx(tx *gorm.DB) (int64, error) {
	var supply models.TokenSupply
	err := tx.Where("id = ?", 1).First(&supply).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return supply.TotalSupply, nil
}

// MintTokens credits newly created tokens to a recipient. Admin only.
func (s *Service) MintTokens(ctx context.Context, caller, recipient string, amount int64) (int64, error) {
	if caller != s.Admin {
		return 0, ErrNotAdmin
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.CreditTx(tx, recipient, amount)
		if err != nil {
			return err
		}
		newBalance = b
		return adjustSupply(tx, amount)
	})
	return newBalance, err
}

// Transfer moves tokens between holders. Total supply is unchanged.
func (s *Service) Transfer(ctx context.Context, caller, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if caller == to {
		return ErrSelfTransfer
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debit(tx, caller, amount); err != nil {
			return err
		}
		_, err := s.CreditTx(tx, to, amount)
		return err
	})
}

// Burn destroys tokens from the caller's balance and shrinks total supply.
func (s *Service) Burn(ctx context.Context, caller string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debit(tx, caller, amount); err != nil {
			return err
		}
		return adjustSupply(tx, -amount)
	})
}

// CreditTx adds tokens to a holder inside an existing transaction, creating
// the holding row on first touch. Returns the new balance.
func (s *Service) CreditTx(tx *gorm.DB, holder string, amount int64) (int64, error) {
	var h models.Holding
	err := tx.Where("holder = ?", holder).First(&h).Error
	if err == gorm.ErrRecordNotFound {
		h = models.Holding{Holder: holder, Balance: amount}
		if err := tx.Create(&h).Error; err != nil {
			return 0, err
		}
		return h.Balance, nil
	}
	if err != nil {
		return 0, err
	}
	h.Balance += amount
	if err := tx.Save(&h).Error; err != nil {
		return 0, err
	}
	return h.Balance, nil
}

func debit(tx *gorm.DB, holder string, amount int64) error {
	var h models.Holding
	err := tx.Where("holder = ?", holder).First(&h).Error
	if err == gorm.ErrRecordNotFound {
		return ErrInsufficientTokens
	}
	if err != nil {
		return err
	}
	if h.Balance < amount {
		return ErrInsufficientTokens
	}
	h.Balance -= amount
	return tx.Save(&h).Error
}

func adjustSupply(tx *gorm.DB, delta int64) error {
	var supply models.TokenSupply
	err := tx.Where("id = ?", 1).First(&supply).Error
	if err == gorm.ErrRecordNotFound {
		supply = models.TokenSupply{ID: 1, TotalSupply: delta}
		return tx.Create(&supply).Error
	}
	if err != nil {
		return err
	}
	supply.TotalSupply += delta
	return tx.Save(&supply).Error
}
