package governance

import (
	"context"
	"encoding/json"

	"agora-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types. The GovernanceEvents table is the authoritative log;
// Redis pub/sub is fan-out only.
const (
	EventProposalCreated   = "ProposalCreated"
	EventVoteCast          = "VoteCast"
	EventProposalExecuted  = "ProposalExecuted"
	EventProposalCancelled = "ProposalCancelled"
	EventFundsDeposited    = "FundsDeposited"
	EventParametersUpdated = "ParametersUpdated"
)

// pendingEvent is a notification recorded during a transaction and published
// only after commit, so subscribers never observe rolled-back effects.
type pendingEvent struct {
	eventType  string
	proposalID *uint64
	payload    json.RawMessage
}

// emit persists the event row inside tx and queues it for post-commit publish.
func emit(tx *gorm.DB, pending *[]pendingEvent, eventType string, proposalID *uint64, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	row := models.GovernanceEvent{
		EventType:  eventType,
		ProposalID: proposalID,
		Payload:    datatypes.JSON(b),
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}
	*pending = append(*pending, pendingEvent{eventType: eventType, proposalID: proposalID, payload: b})
	return nil
}

func (s *Service) publishPending(ctx context.Context, pending []pendingEvent) {
	for _, e := range pending {
		s.Events.Publish(ctx, e.eventType, e.proposalID, e.payload)
	}
}
