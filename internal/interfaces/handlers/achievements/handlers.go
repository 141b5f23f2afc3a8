package achievements

import (
	"strconv"

	registrysvc "agora-backend/internal/application/registry"
	"agora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles achievement-registry read endpoints. There is no HTTP mint
// route: only the governance engine mints, in-process.
type Handlers struct {
	Service *registrysvc.Service
}

// GetAchievement GET /api/v1/achievements/get-achievement/:token_id
func (h *Handlers) GetAchievement(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil {
		return response.Error(c, registrysvc.ErrAchievementNotFound.Error(), 404, nil)
	}

	record, err := h.Service.GetByID(c.Context(), tokenID)
	if err != nil {
		if err == registrysvc.ErrAchievementNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Achievement fetched successfully", record, nil)
}

// GetOwnerAchievements GET /api/v1/achievements/get-owner-achievements/:holder
func (h *Handlers) GetOwnerAchievements(c *fiber.Ctx) error {
	holder := c.Params("holder")
	if holder == "" {
		return response.Error(c, "Holder address is required", 400, nil)
	}

	records, err := h.Service.ListByOwner(c.Context(), holder)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Achievements fetched successfully", records, nil)
}
