package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

type BrokerRepository struct {
	db *sqlx.DB
}

func NewBrokerRepository(db *sqlx.DB) *BrokerRepository {
	return &BrokerRepository{db: db}
}

const brokerUserJoin = `
	b.*,
	u.name  AS user_name,
	u.email AS user_email,
	u.phone AS user_phone
	FROM brokers b
	JOIN users u ON u.id = b.user_id`

func (r *BrokerRepository) Create(ctx context.Context, b *model.Broker) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO brokers
            (id, user_id, company_name, license_number, years_of_experience, city, about,
             verification_status, rejection_reason, is_featured, created_at, updated_at)
        VALUES
            (:id, :user_id, :company_name, :license_number, :years_of_experience, :city, :about,
             :verification_status, :rejection_reason, :is_featured, :created_at, :updated_at)
    `, b)
	if err != nil {
		return fmt.Errorf("BrokerRepository.Create: %w", err)
	}
	return nil
}

func (r *BrokerRepository) GetByID(ctx context.Context, id string) (*model.BrokerWithUser, error) {
	var b model.BrokerWithUser
	err := r.db.GetContext(ctx, &b, `SELECT `+brokerUserJoin+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Broker not found")
	}
	if err != nil {
		return nil, fmt.Errorf("BrokerRepository.GetByID: %w", err)
	}
	return &b, nil
}

func (r *BrokerRepository) GetByUserID(ctx context.Context, userID string) (*model.Broker, error) {
	var b model.Broker
	err := r.db.GetContext(ctx, &b, `SELECT * FROM brokers WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Broker profile not found. Please complete your registration.")
	}
	if err != nil {
		return nil, fmt.Errorf("BrokerRepository.GetByUserID: %w", err)
	}
	return &b, nil
}

// List возвращает брокеров по статусу верификации; пустой статус — всех.
// pending поднимаются наверх, дальше свежие.
func (r *BrokerRepository) List(ctx context.Context, status string) ([]model.BrokerWithUser, error) {
	query := `SELECT ` + brokerUserJoin
	args := []interface{}{}
	if status != "" {
		query += ` WHERE b.verification_status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY b.verification_status ASC, b.is_featured DESC, b.created_at DESC`

	var list []model.BrokerWithUser
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("BrokerRepository.List: %w", err)
	}
	return list, nil
}

// UpdateProfile сохраняет правку профиля вместе с изменением статуса из
// state machine (EditReset): один атомарный UPDATE.
func (r *BrokerRepository) UpdateProfile(ctx context.Context, b *model.Broker) error {
	res, err := r.db.NamedExecContext(ctx, `
        UPDATE brokers SET
            company_name        = :company_name,
            license_number      = :license_number,
            years_of_experience = :years_of_experience,
            city                = :city,
            about               = :about,
            verification_status = :verification_status,
            rejection_reason    = :rejection_reason,
            updated_at          = now()
        WHERE id = :id
    `, b)
	if err != nil {
		return fmt.Errorf("BrokerRepository.UpdateProfile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Broker not found")
	}
	return nil
}

// ApplyVerification записывает change-set решения админа.
func (r *BrokerRepository) ApplyVerification(ctx context.Context, brokerID string, ch verification.Change) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE brokers SET
			verification_status = $1,
			rejection_reason    = $2,
			verified_at         = $3,
			verified_by         = $4,
			updated_at          = now()
		WHERE id = $5
	`, string(ch.Status), ch.RejectionReason, ch.VerifiedAt, ch.VerifiedBy, brokerID)
	if err != nil {
		return fmt.Errorf("BrokerRepository.ApplyVerification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Broker not found")
	}
	return nil
}

func (r *BrokerRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT verification_status, COUNT(*) FROM brokers GROUP BY verification_status`)
	if err != nil {
		return nil, fmt.Errorf("BrokerRepository.CountByStatus: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("BrokerRepository.CountByStatus scan: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BrokerRepository.CountByStatus rows: %w", err)
	}
	return counts, nil
}
