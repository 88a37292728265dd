package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO users (id, name, email, phone, password, role, is_active, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :password, :role, :is_active, :created_at, :updated_at)
    `, u)
	if err != nil {
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.GetByID: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.GetByEmail: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users WHERE email = $1`, email); err != nil {
		return false, fmt.Errorf("UserRepository.EmailExists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users WHERE phone = $1`, phone); err != nil {
		return false, fmt.Errorf("UserRepository.PhoneExists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("UserRepository.Exists: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("UserRepository.UpdateLastLogin: %w", err)
	}
	return nil
}

// CountByRole — агрегаты для админского дашборда
func (r *UserRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.CountByRole: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("UserRepository.CountByRole scan: %w", err)
		}
		counts[role] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("UserRepository.CountByRole rows: %w", err)
	}
	return counts, nil
}
