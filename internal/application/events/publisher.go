package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultChannel is the Redis pub/sub channel notifications fan out on.
const DefaultChannel = "governance:events"

// Envelope is the published wire shape.
type Envelope struct {
	Type       string          `json:"type"`
	ProposalID *uint64         `json:"proposal_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	EmittedAt  time.Time       `json:"emitted_at"`
}

// Publisher fans governance notifications out over Redis pub/sub. The
// authoritative record is the GovernanceEvents table; publishing is
// best-effort and happens only after the owning transaction commits.
type Publisher struct {
	Rdb     *redis.Client
	Channel string
}

// Publish sends one notification. A nil publisher or nil client is a no-op so
// services can run without Redis (tests, local tooling).
func (p *Publisher) Publish(ctx context.Context, eventType string, proposalID *uint64, payload json.RawMessage) {
	if p == nil || p.Rdb == nil {
		return
	}
	channel := p.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	b, err := json.Marshal(Envelope{
		Type:       eventType,
		ProposalID: proposalID,
		Payload:    payload,
		EmittedAt:  time.Now(),
	})
	if err != nil {
		return
	}
	if err := p.Rdb.Publish(ctx, channel, b).Err(); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Event publish failed")
	}
}
