// Package events delivers "match created" notifications to per-user channels.
//
// Delivery is at-least-once. Consumers dedupe on MatchEvent.ID.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/oggyb/muzz-match/internal/db"
)

const TypeMatchCreated = "match.created"

// MatchEvent is the payload sent to both participants of a new match.
type MatchEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	MatchID        uint64    `json:"match_id"`
	ConversationID uint64    `json:"conversation_id"`
	UserAID        uint64    `json:"user_a_id"`
	UserBID        uint64    `json:"user_b_id"`
	MatchedAt      time.Time `json:"matched_at"`
}

func NewMatchEvent(m *db.Match, c *db.Conversation) MatchEvent {
	ev := MatchEvent{
		ID:        uuid.NewString(),
		Type:      TypeMatchCreated,
		MatchID:   m.ID,
		UserAID:   m.UserAID,
		UserBID:   m.UserBID,
		MatchedAt: m.MatchedAt,
	}
	if c != nil {
		ev.ConversationID = c.ID
	}
	return ev
}

// Recipients returns the user ids whose channels receive the event.
func (e MatchEvent) Recipients() []uint64 {
	return []uint64{e.UserAID, e.UserBID}
}

// Publisher sends a match event to every recipient's channel on one transport.
type Publisher interface {
	Publish(ctx context.Context, ev MatchEvent) error
	Transport() string
}
