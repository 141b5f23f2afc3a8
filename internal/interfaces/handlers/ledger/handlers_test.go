package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	ledgersvc "agora-backend/internal/application/ledger"
	"agora-backend/internal/middleware"
	"agora-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerHandlers(t *testing.T) (*fiber.App, *ledgersvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Holding{}, &models.TokenSupply{}))

	svc := &ledgersvc.Service{DB: db, Admin: "addr-admin"}
	h := &Handlers{Service: svc}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.CallerIdentity())
	app.Get("/balance-of/:holder", h.BalanceOf)
	app.Get("/total-supply", h.TotalSupply)
	app.Post("/mint-tokens", h.MintTokens)
	app.Post("/transfer-tokens", middleware.RequireCaller(), h.TransferTokens)
	app.Post("/burn-tokens", middleware.RequireCaller(), h.BurnTokens)
	return app, svc
}

func post(t *testing.T, app *fiber.App, target, caller string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(middleware.CallerHeader, caller)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestBalanceOf_DefaultsToZero(t *testing.T) {
	app, _ := setupLedgerHandlers(t)

	req := httptest.NewRequest("GET", "/balance-of/addr-ghost", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(0), out["data"].(map[string]interface{})["balance"])
}

func TestMintTokens(t *testing.T) {
	app, _ := setupLedgerHandlers(t)

	status, _ := post(t, app, "/mint-tokens", "addr-mallory", map[string]interface{}{
		"recipient": "addr-alice", "amount": 100,
	})
	assert.Equal(t, 403, status)

	status, out := post(t, app, "/mint-tokens", "addr-admin", map[string]interface{}{
		"recipient": "addr-alice", "amount": 100,
	})
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(100), out["data"].(map[string]interface{})["balance"])

	req := httptest.NewRequest("GET", "/total-supply", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(100), out["data"].(map[string]interface{})["total_supply"])
}

func TestTransferAndBurn(t *testing.T) {
	app, svc := setupLedgerHandlers(t)
	_, err := svc.MintTokens(context.Background(), "addr-admin", "addr-alice", 100)
	require.NoError(t, err)

	status, _ := post(t, app, "/transfer-tokens", "addr-alice", map[string]interface{}{
		"to": "addr-bob", "amount": 101,
	})
	assert.Equal(t, 400, status)

	status, _ = post(t, app, "/transfer-tokens", "addr-alice", map[string]interface{}{
		"to": "addr-bob", "amount": 40,
	})
	assert.Equal(t, 200, status)

	status, _ = post(t, app, "/burn-tokens", "addr-alice", map[string]interface{}{"amount": 60})
	assert.Equal(t, 200, status)

	balance, err := svc.BalanceOf(context.Background(), "addr-alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
