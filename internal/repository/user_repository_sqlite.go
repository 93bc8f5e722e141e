package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/hr-helpdesk/internal/domain"
)

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewSQLiteUserRepository returns a UserRepository over a local SQLite file.
func NewSQLiteUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, hashed_password, role, is_active, created_at)
        VALUES (?, ?, ?, ?, ?)`

	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		createdAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `
        SELECT id, username, hashed_password, role, is_active, created_at
        FROM users WHERE id=?`, id)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &user, nil
}

func (r *sqliteUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `
        SELECT id, username, hashed_password, role, is_active, created_at
        FROM users WHERE username=?`, username)
	if err != nil {
		return nil, translateNoRows(err)
	}
	return &user, nil
}
