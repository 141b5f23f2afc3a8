package treasury

import (
	govsvc "agora-backend/internal/application/governance"
	"agora-backend/internal/middleware"
	"agora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles treasury endpoints. The pool itself is owned by the
// governance engine; these routes only move value in and read state.
type Handlers struct {
	Service *govsvc.Service
}

// DepositFunds POST /api/v1/treasury/deposit-funds
func (h *Handlers) DepositFunds(c *fiber.Ctx) error {
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	balance, err := h.Service.DepositFunds(c.Context(), caller, body.Amount)
	if err != nil {
		if err == govsvc.ErrInvalidAmount {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Funds deposited successfully", fiber.Map{
		"depositor": caller,
		"amount":    body.Amount,
		"balance":   balance,
	}, nil)
}

// Receive POST /api/v1/treasury/receive — the unconditional value-transfer
// entry point: any sender, any positive amount, no further validation.
func (h *Handlers) Receive(c *fiber.Ctx) error {
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	balance, err := h.Service.Receive(c.Context(), caller, body.Amount)
	if err != nil {
		if err == govsvc.ErrInvalidAmount {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Transfer accepted", fiber.Map{
		"depositor": caller,
		"amount":    body.Amount,
		"balance":   balance,
	}, nil)
}

// GetBalance GET /api/v1/treasury/get-balance
func (h *Handlers) GetBalance(c *fiber.Ctx) error {
	balance, err := h.Service.TreasuryBalance(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Treasury balance fetched successfully", fiber.Map{
		"balance": balance,
	}, nil)
}

// GetEntries GET /api/v1/treasury/get-entries
func (h *Handlers) GetEntries(c *fiber.Ctx) error {
	entries, err := h.Service.TreasuryEntries(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Treasury entries fetched successfully", entries, nil)
}
