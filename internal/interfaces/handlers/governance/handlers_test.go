package governance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	govsvc "agora-backend/internal/application/governance"
	ledgersvc "agora-backend/internal/application/ledger"
	registrysvc "agora-backend/internal/application/registry"
	"agora-backend/internal/infrastructure/database"
	"agora-backend/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testAdminKey = "test-admin-key"

type fixture struct {
	app    *fiber.App
	svc    *govsvc.Service
	ledger *ledgersvc.Service
	now    time.Time
}

func setupGovernance(t *testing.T) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{
		ledger: &ledgersvc.Service{DB: db, Admin: "addr-admin"},
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &govsvc.Service{
		DB:       db,
		Ledger:   f.ledger,
		Registry: &registrysvc.Service{DB: db, Engine: govsvc.EngineIdentity},
		Now:      func() time.Time { return f.now },
	}
	require.NoError(t, f.svc.Bootstrap(context.Background(), govsvc.SeedParams{
		ProposalThreshold: 100,
		VotingPeriod:      7 * time.Second,
		QuorumBps:         1000,
		AdminAddress:      "addr-admin",
	}))

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminKey), bcrypt.MinCost)
	require.NoError(t, err)

	h := &Handlers{Service: f.svc}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.CallerIdentity())
	app.Post("/create-proposal", middleware.RequireCaller(), h.CreateProposal)
	app.Post("/cast-vote", middleware.RequireCaller(), h.CastVote)
	app.Post("/finalize-proposal", h.FinalizeProposal)
	app.Post("/execute-proposal", h.ExecuteProposal)
	app.Post("/cancel-proposal", middleware.RequireCaller(), h.CancelProposal)
	app.Patch("/update-parameters", middleware.AuthorizeAdmin(string(hash)), h.UpdateParameters)
	app.Get("/get-proposal/:proposal_id", h.GetProposal)
	app.Get("/get-proposal-count", h.GetProposalCount)
	app.Get("/has-voted/:proposal_id/:holder", h.HasVoted)
	f.app = app

	// Seed a funded treasury and proposer/voter balances.
	_, err = f.ledger.MintTokens(context.Background(), "addr-admin", "addr-proposer", 500)
	require.NoError(t, err)
	_, err = f.ledger.MintTokens(context.Background(), "addr-admin", "addr-voter", 15000)
	require.NoError(t, err)
	_, err = f.svc.DepositFunds(context.Background(), "addr-admin", 10)
	require.NoError(t, err)
	return f
}

func request(t *testing.T, app *fiber.App, method, target, caller string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
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

func TestCreateProposal_RequiresCaller(t *testing.T) {
	f := setupGovernance(t)
	status, _ := request(t, f.app, "POST", "/create-proposal", "", map[string]interface{}{
		"title": "No caller", "requested_amount": 1,
	})
	assert.Equal(t, 401, status)
}

func TestCreateProposal_Success(t *testing.T) {
	f := setupGovernance(t)
	status, out := request(t, f.app, "POST", "/create-proposal", "addr-proposer", map[string]interface{}{
		"title":            "Fund the docs sprint",
		"description":      "two weeks",
		"metadata_ref":     "ipfs://QmDocs",
		"requested_amount": 1,
	})
	assert.Equal(t, 201, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["proposal_id"])
}

func TestCreateProposal_BelowThreshold(t *testing.T) {
	f := setupGovernance(t)
	status, _ := request(t, f.app, "POST", "/create-proposal", "addr-nobody", map[string]interface{}{
		"title": "Poor", "requested_amount": 1,
	})
	assert.Equal(t, 400, status)
}

func TestCastVote_FullFlow(t *testing.T) {
	f := setupGovernance(t)
	status, _ := request(t, f.app, "POST", "/create-proposal", "addr-proposer", map[string]interface{}{
		"title": "Flow", "requested_amount": 1,
	})
	require.Equal(t, 201, status)

	status, out := request(t, f.app, "POST", "/cast-vote", "addr-voter", map[string]interface{}{
		"proposal_id": 1, "support": true,
	})
	assert.Equal(t, 200, status)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(15000), data["weight"])

	// Duplicate vote
	status, _ = request(t, f.app, "POST", "/cast-vote", "addr-voter", map[string]interface{}{
		"proposal_id": 1, "support": false,
	})
	assert.Equal(t, 409, status)

	status, out = request(t, f.app, "GET", "/has-voted/1/addr-voter", "", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, out["data"].(map[string]interface{})["has_voted"])

	// Finalize too early
	status, _ = request(t, f.app, "POST", "/finalize-proposal", "", map[string]interface{}{"proposal_id": 1})
	assert.Equal(t, 400, status)

	f.now = f.now.Add(8 * time.Second)
	status, out = request(t, f.app, "POST", "/finalize-proposal", "", map[string]interface{}{"proposal_id": 1})
	assert.Equal(t, 200, status)
	assert.Equal(t, "succeeded", out["data"].(map[string]interface{})["state"])

	status, _ = request(t, f.app, "POST", "/execute-proposal", "", map[string]interface{}{"proposal_id": 1})
	assert.Equal(t, 200, status)

	// Second execution is an InvalidState conflict.
	status, _ = request(t, f.app, "POST", "/execute-proposal", "", map[string]interface{}{"proposal_id": 1})
	assert.Equal(t, 409, status)
}

func TestGetProposal_NotFound(t *testing.T) {
	f := setupGovernance(t)
	status, _ := request(t, f.app, "GET", "/get-proposal/42", "", nil)
	assert.Equal(t, 404, status)

	status, _ = request(t, f.app, "GET", "/get-proposal/not-a-number", "", nil)
	assert.Equal(t, 404, status)
}

func TestGetProposalCount(t *testing.T) {
	f := setupGovernance(t)
	status, out := request(t, f.app, "GET", "/get-proposal-count", "", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(0), out["data"].(map[string]interface{})["count"])
}

func TestHasVoted_OutOfRangeIsFalse(t *testing.T) {
	f := setupGovernance(t)
	status, out := request(t, f.app, "GET", "/has-voted/999/addr-voter", "", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, false, out["data"].(map[string]interface{})["has_voted"])
}

func TestUpdateParameters_AdminKey(t *testing.T) {
	f := setupGovernance(t)

	// Wrong key is rejected by the middleware.
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{
		"proposal_threshold": 200, "voting_period_seconds": 60, "quorum_bps": 2000,
	}))
	req := httptest.NewRequest("PATCH", "/update-parameters", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CallerHeader, "addr-admin")
	req.Header.Set(middleware.AdminKeyHeader, "wrong")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// Right key but non-admin caller is rejected by the engine.
	buf.Reset()
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{
		"proposal_threshold": 200, "voting_period_seconds": 60, "quorum_bps": 2000,
	}))
	req = httptest.NewRequest("PATCH", "/update-parameters", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CallerHeader, "addr-mallory")
	req.Header.Set(middleware.AdminKeyHeader, testAdminKey)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	// Right key and admin caller succeeds.
	buf.Reset()
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{
		"proposal_threshold": 200, "voting_period_seconds": 60, "quorum_bps": 2000,
	}))
	req = httptest.NewRequest("PATCH", "/update-parameters", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.CallerHeader, "addr-admin")
	req.Header.Set(middleware.AdminKeyHeader, testAdminKey)
	resp, err = f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
