package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OwnerID *int64
	Limit   int
	Offset  int
}

func (f TicketFilter) normalized() TicketFilter {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// Update stores the ticket's response and status.
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, query, response, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Query,
		ticket.Response,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `UPDATE tickets SET response=$1, status=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Response,
		ticket.Status,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, owner_id, query, response, status, created_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Query,
		&ticket.Response,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, translateNoRows(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	filter = filter.normalized()

	var (
		rows pgx.Rows
		err  error
	)
	if filter.OwnerID != nil {
		rows, err = r.pool.Query(ctx, `
            SELECT id, owner_id, query, response, status, created_at
            FROM tickets WHERE owner_id=$1 ORDER BY id LIMIT $2 OFFSET $3`,
			*filter.OwnerID, filter.Limit, filter.Offset)
	} else {
		rows, err = r.pool.Query(ctx, `
            SELECT id, owner_id, query, response, status, created_at
            FROM tickets ORDER BY id LIMIT $1 OFFSET $2`,
			filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OwnerID,
			&ticket.Query,
			&ticket.Response,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
