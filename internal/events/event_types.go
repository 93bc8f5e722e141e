package events

import (
	"time"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted EventType = "ticket_submitted"
	EventTicketAnswered  EventType = "ticket_answered"
	EventTicketEscalated EventType = "ticket_escalated"
)

// Actor identifies who caused an event.
type Actor struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	OwnerID int64  `json:"owner_id"`
	Query   string `json:"query"`
}

// TicketAnsweredPayload payload.
type TicketAnsweredPayload struct {
	Status         domain.TicketStatus `json:"status"`
	Source         string              `json:"source"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	ResponseLength int                 `json:"response_length"`
}
