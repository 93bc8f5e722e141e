package domain

import "time"

// TicketStatus enumerates the states a ticket can end up in.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "open"
	TicketStatusClosed    TicketStatus = "closed"
	TicketStatusEscalated TicketStatus = "escalated"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusClosed, TicketStatusEscalated:
		return true
	}
	return false
}

// Ticket is an employee query together with the responder's answer.
type Ticket struct {
	ID        int64        `db:"id"`
	OwnerID   int64        `db:"owner_id"`
	Query     string       `db:"query"`
	Response  *string      `db:"response"`
	Status    TicketStatus `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
}
