package middleware

import (
	"agora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the administrative API key.
const AdminKeyHeader = "X-Admin-Key"

// AuthorizeAdmin returns a handler that verifies the admin key against the
// configured bcrypt hash. Unconfigured hash -> 500; wrong or missing key -> 403.
// Engine-level identity checks (caller == admin address) still apply below this.
func AuthorizeAdmin(adminKeyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCaller(c) == "" {
			return response.Unauthorized(c, "Holder address required")
		}
		if adminKeyHash == "" {
			return response.Error(c, "Admin key configuration error", 500, nil)
		}
		key := c.Get(AdminKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword([]byte(adminKeyHash), []byte(key)) != nil {
			return response.Error(c, "User is Forbidden from performing this action", 403, nil)
		}
		return c.Next()
	}
}
