package middleware

import (
	"agora-backend/internal/pkg/response"
	"agora-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// CallerHeader carries the holder address of the caller. Key custody and
// signature verification live outside this service; the address is taken as
// presented.
const CallerHeader = "X-Holder-Address"

const callerLocal = "caller"

// CallerIdentity stores the caller's holder address in Locals. The address is
// optional here; RequireCaller gates routes that need one.
func CallerIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		addr := c.Get(CallerHeader)
		if addr != "" && validation.IsValidAddress(addr) {
			c.Locals(callerLocal, addr)
		}
		return c.Next()
	}
}

// RequireCaller ensures a holder address was presented. Returns 401 with the
// standard error format if not.
func RequireCaller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCaller(c) == "" {
			return response.Unauthorized(c, "Holder address required")
		}
		return c.Next()
	}
}

// GetCaller returns the caller's holder address from Locals ("" if absent).
func GetCaller(c *fiber.Ctx) string {
	if addr, ok := c.Locals(callerLocal).(string); ok {
		return addr
	}
	return ""
}
