package ledger

import (
	ledgersvc "agora-backend/internal/application/ledger"
	"agora-backend/internal/middleware"
	"agora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles balance-ledger endpoints.
type Handlers struct {
	Service *ledgersvc.Service
}

var statusMap = map[string]int{
	ledgersvc.ErrInvalidAmount.Error():      400,
	ledgersvc.ErrInsufficientTokens.Error(): 400,
	ledgersvc.ErrSelfTransfer.Error():       400,
	ledgersvc.ErrNotAdmin.Error():           403,
}

func serviceError(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// BalanceOf GET /api/v1/ledger/balance-of/:holder
func (h *Handlers) BalanceOf(c *fiber.Ctx) error {
	holder := c.Params("holder")
	if holder == "" {
		return response.Error(c, "Holder address is required", 400, nil)
	}
	balance, err := h.Service.BalanceOf(c.Context(), holder)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Balance fetched successfully", fiber.Map{
		"holder":  holder,
		"balance": balance,
	}, nil)
}

// TotalSupply GET /api/v1/ledger/total-supply
func (h *Handlers) TotalSupply(c *fiber.Ctx) error {
	supply, err := h.Service.TotalSupply(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Total supply fetched successfully", fiber.Map{
		"total_supply": supply,
	}, nil)
}

// MintTokens POST /api/v1/ledger/mint-tokens
func (h *Handlers) MintTokens(c *fiber.Ctx) error {
	var body struct {
		Recipient string `json:"recipient"`
		Amount    int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil || body.Recipient == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	balance, err := h.Service.MintTokens(c.Context(), caller, body.Recipient, body.Amount)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Tokens minted successfully", fiber.Map{
		"recipient": body.Recipient,
		"balance":   balance,
	}, nil)
}

// TransferTokens POST /api/v1/ledger/transfer-tokens
func (h *Handlers) TransferTokens(c *fiber.Ctx) error {
	var body struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil || body.To == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	if err := h.Service.Transfer(c.Context(), caller, body.To, body.Amount); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Transfer successful", fiber.Map{
		"to":     body.To,
		"amount": body.Amount,
	}, nil)
}

// BurnTokens POST /api/v1/ledger/burn-tokens
func (h *Handlers) BurnTokens(c *fiber.Ctx) error {
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	if err := h.Service.Burn(c.Context(), caller, body.Amount); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Tokens burned successfully", fiber.Map{
		"amount": body.Amount,
	}, nil)
}
