package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

type sqliteTicketRepository struct {
	db *sqlx.DB
}

// NewSQLiteTicketRepository returns a TicketRepository over a local SQLite file.
func NewSQLiteTicketRepository(db *sqlx.DB) TicketRepository {
	return &sqliteTicketRepository{db: db}
}

func (r *sqliteTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO tickets (owner_id, query, response, status, created_at)
        VALUES (?, ?, ?, ?, ?)`,
		ticket.OwnerID,
		ticket.Query,
		ticket.Response,
		ticket.Status,
		createdAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ticket.ID = id
	ticket.CreatedAt = createdAt
	return nil
}

func (r *sqliteTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tickets SET response=?, status=? WHERE id=?`,
		ticket.Response,
		ticket.Status,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.db.GetContext(ctx, &ticket, `
        SELECT id, owner_id, query, response, status, created_at
        FROM tickets WHERE id=?`, id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &ticket, nil
}

func (r *sqliteTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	filter = filter.normalized()

	tickets := []domain.Ticket{}
	var err error
	if filter.OwnerID != nil {
		err = r.db.SelectContext(ctx, &tickets, `
            SELECT id, owner_id, query, response, status, created_at
            FROM tickets WHERE owner_id=? ORDER BY id LIMIT ? OFFSET ?`,
			*filter.OwnerID, filter.Limit, filter.Offset)
	} else {
		err = r.db.SelectContext(ctx, &tickets, `
            SELECT id, owner_id, query, response, status, created_at
            FROM tickets ORDER BY id LIMIT ? OFFSET ?`,
			filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
