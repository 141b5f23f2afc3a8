package ledger

import (
	"context"
	"testing"

	"agora-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Holding{}, &models.TokenSupply{}))
	return &Service{DB: db, Admin: "addr-admin"}
}

func TestMintTokens_AdminOnly(t *testing.T) {
	s := setupLedger(t)
	ctx := context.Background()

	_, err := s.MintTokens(ctx, "addr-mallory", "addr-alice", 100)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = s.MintTokens(ctx, "addr-admin", "addr-alice", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	balance, err := s.MintTokens(ctx, "addr-admin", "addr-alice", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	supply, err := s.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), supply)
}

func TestBalanceOf_UnknownHolderIsZero(t *testing.T) {
	s := setupLedger(t)

	balance, err := s.BalanceOf(context.Background(), "addr-ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	supply, err := s.TotalSupply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply)
}

func TestTransfer(t *testing.T) {
	s := setupLedger(t)
	ctx := context.Background()
	_, err := s.MintTokens(ctx, "addr-admin", "addr-alice", 100)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Transfer(ctx, "addr-alice", "addr-alice", 10), ErrSelfTransfer)
	assert.ErrorIs(t, s.Transfer(ctx, "addr-alice", "addr-bob", 0), ErrInvalidAmount)
	assert.ErrorIs(t, s.Transfer(ctx, "addr-alice", "addr-bob", 101), ErrInsufficientTokens)
	assert.ErrorIs(t, s.Transfer(ctx, "addr-ghost", "addr-bob", 1), ErrInsufficientTokens)

	require.NoError(t, s.Transfer(ctx, "addr-alice", "addr-bob", 40))

	aliceBalance, err := s.BalanceOf(ctx, "addr-alice")
	require.NoError(t, err)
	assert.Equal(t, int64(60), aliceBalance)
	bobBalance, err := s.BalanceOf(ctx, "addr-bob")
	require.NoError(t, err)
	assert.Equal(t, int64(40), bobBalance)

	// Supply is unchanged by transfers.
	supply, err := s.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), supply)
}

func TestBurn(t *testing.T) {
	s := setupLedger(t)
	ctx := context.Background()
	_, err := s.MintTokens(ctx, "addr-admin", "addr-alice", 100)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Burn(ctx, "addr-alice", 101), ErrInsufficientTokens)
	require.NoError(t, s.Burn(ctx, "addr-alice", 30))

	balance, err := s.BalanceOf(ctx, "addr-alice")
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)

	supply, err := s.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(70), supply)
}
