package achievements

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	registrysvc "agora-backend/internal/application/registry"
	"agora-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAchievements(t *testing.T) (*fiber.App, *registrysvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Achievement{}))

	svc := &registrysvc.Service{DB: db, Engine: "governance-engine"}
	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Get("/get-achievement/:token_id", h.GetAchievement)
	app.Get("/get-owner-achievements/:holder", h.GetOwnerAchievements)
	return app, svc
}

func TestGetAchievement_NotFound(t *testing.T) {
	app, _ := setupAchievements(t)

	req := httptest.NewRequest("GET", "/get-achievement/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	req = httptest.NewRequest("GET", "/get-achievement/not-a-number", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetAchievement_Success(t *testing.T) {
	app, svc := setupAchievements(t)
	_, err := svc.Mint(svc.DB, "governance-engine", "addr-alice", "Funded", "ipfs://x", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/get-achievement/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "Funded", data["title"])
	assert.Equal(t, "addr-alice", data["creator"])
}

func TestGetOwnerAchievements(t *testing.T) {
	app, svc := setupAchievements(t)
	_, err := svc.Mint(svc.DB, "governance-engine", "addr-alice", "First", "", time.Now())
	require.NoError(t, err)
	_, err = svc.Mint(svc.DB, "governance-engine", "addr-alice", "Second", "", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/get-owner-achievements/addr-alice", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out["data"].([]interface{}), 2)
}
