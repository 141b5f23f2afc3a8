package governance

import (
	"strconv"
	"time"

	govsvc "agora-backend/internal/application/governance"
	"agora-backend/internal/middleware"
	"agora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles governance endpoints.
type Handlers struct {
	Service *govsvc.Service
}

// statusMap translates engine errors to HTTP status codes.
var statusMap = map[string]int{
	govsvc.ErrProposalNotFound.Error():       404,
	govsvc.ErrNotProposer.Error():            403,
	govsvc.ErrNotAdmin.Error():               403,
	govsvc.ErrBelowProposalThreshold.Error(): 400,
	govsvc.ErrInsufficientTreasury.Error():   400,
	govsvc.ErrNoVotingWeight.Error():         400,
	govsvc.ErrProposalNotActive.Error():      409,
	govsvc.ErrProposalNotSucceeded.Error():   409,
	govsvc.ErrFundsAlreadyReleased.Error():   409,
	govsvc.ErrProposalNotCancellable.Error(): 409,
	govsvc.ErrVotingClosed.Error():           400,
	govsvc.ErrVotingStillOpen.Error():        400,
	govsvc.ErrAlreadyVoted.Error():           409,
	govsvc.ErrEmptyTitle.Error():             400,
	govsvc.ErrInvalidAmount.Error():          400,
	govsvc.ErrQuorumOutOfRange.Error():       400,
	govsvc.ErrInvalidPeriod.Error():          400,
	govsvc.ErrInvalidThreshold.Error():       400,
}

func serviceError(c *fiber.Ctx, err error) error {
	if code, ok := statusMap[err.Error()]; ok {
		return response.Error(c, err.Error(), code, nil)
	}
	return response.Error(c, "Internal Server Error", 500, nil)
}

// CreateProposal POST /api/v1/governance/create-proposal
func (h *Handlers) CreateProposal(c *fiber.Ctx) error {
	var body struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		MetadataRef     string `json:"metadata_ref"`
		RequestedAmount int64  `json:"requested_amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	// Precondition order (threshold, amount, pool, title) lives in the
	// service; the handler only parses.
	id, err := h.Service.CreateProposal(c.Context(), caller, body.Title, body.Description, body.MetadataRef, body.RequestedAmount)
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Proposal created successfully", fiber.Map{
		"proposal_id": id,
	}, nil)
}

// CastVote POST /api/v1/governance/cast-vote
func (h *Handlers) CastVote(c *fiber.Ctx) error {
	var body struct {
		ProposalID uint64 `json:"proposal_id"`
		Support    bool   `json:"support"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	weight, err := h.Service.CastVote(c.Context(), caller, body.ProposalID, body.Support)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Vote cast successfully", fiber.Map{
		"proposal_id": body.ProposalID,
		"support":     body.Support,
		"weight":      weight,
	}, nil)
}

// FinalizeProposal POST /api/v1/governance/finalize-proposal
func (h *Handlers) FinalizeProposal(c *fiber.Ctx) error {
	var body struct {
		ProposalID uint64 `json:"proposal_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	outcome, err := h.Service.FinalizeProposal(c.Context(), body.ProposalID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposal finalized", fiber.Map{
		"proposal_id": body.ProposalID,
		"state":       outcome,
	}, nil)
}

// ExecuteProposal POST /api/v1/governance/execute-proposal
func (h *Handlers) ExecuteProposal(c *fiber.Ctx) error {
	var body struct {
		ProposalID uint64 `json:"proposal_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	if err := h.Service.ExecuteProposal(c.Context(), body.ProposalID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposal executed successfully", fiber.Map{
		"proposal_id": body.ProposalID,
	}, nil)
}

// CancelProposal POST /api/v1/governance/cancel-proposal
func (h *Handlers) CancelProposal(c *fiber.Ctx) error {
	var body struct {
		ProposalID uint64 `json:"proposal_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	if err := h.Service.CancelProposal(c.Context(), caller, body.ProposalID); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposal cancelled", fiber.Map{
		"proposal_id": body.ProposalID,
	}, nil)
}

// UpdateParameters PATCH /api/v1/governance/update-parameters
func (h *Handlers) UpdateParameters(c *fiber.Ctx) error {
	var body struct {
		ProposalThreshold   int64 `json:"proposal_threshold"`
		VotingPeriodSeconds int64 `json:"voting_period_seconds"`
		QuorumBps           int64 `json:"quorum_bps"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller := middleware.GetCaller(c)

	err := h.Service.UpdateParameters(c.Context(), caller, body.ProposalThreshold,
		time.Duration(body.VotingPeriodSeconds)*time.Second, body.QuorumBps)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Parameters updated successfully", fiber.Map{
		"proposal_threshold":    body.ProposalThreshold,
		"voting_period_seconds": body.VotingPeriodSeconds,
		"quorum_bps":            body.QuorumBps,
	}, nil)
}

// GetProposal GET /api/v1/governance/get-proposal/:proposal_id
func (h *Handlers) GetProposal(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("proposal_id"), 10, 64)
	if err != nil {
		return response.Error(c, govsvc.ErrProposalNotFound.Error(), 404, nil)
	}

	proposal, err := h.Service.GetProposal(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposal fetched successfully", proposal, nil)
}

// GetProposalCount GET /api/v1/governance/get-proposal-count
func (h *Handlers) GetProposalCount(c *fiber.Ctx) error {
	count, err := h.Service.ProposalCount(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposal count fetched successfully", fiber.Map{
		"count": count,
	}, nil)
}

// HasVoted GET /api/v1/governance/has-voted/:proposal_id/:holder
func (h *Handlers) HasVoted(c *fiber.Ctx) error {
	// Out-of-range ids report false rather than failing.
	id, err := strconv.ParseUint(c.Params("proposal_id"), 10, 64)
	if err != nil {
		return response.Success(c, "Vote status fetched", fiber.Map{"has_voted": false}, nil)
	}
	voted, err := h.Service.HasVoted(c.Context(), id, c.Params("holder"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Vote status fetched", fiber.Map{
		"has_voted": voted,
	}, nil)
}
