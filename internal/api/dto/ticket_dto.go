package dto

import (
	"time"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Query string `json:"query"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID        int64               `json:"id"`
	OwnerID   int64               `json:"owner_id"`
	Query     string              `json:"query"`
	Response  *string             `json:"response"`
	Status    domain.TicketStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Query:     t.Query,
		Response:  t.Response,
		Status:    t.Status,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

// NewTicketList maps tickets, never returning nil so the body is always a JSON array.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
