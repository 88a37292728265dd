package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
)

type PropertyRepository struct {
	db *sqlx.DB
}

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// brokerJoin — общие колонки для выборок объявления вместе с брокером.
const brokerJoin = `
	p.*,
	b.user_id             AS broker_user_id,
	b.company_name        AS broker_company,
	b.license_number      AS broker_license,
	b.years_of_experience AS broker_experience,
	u.name                AS broker_name,
	u.email               AS broker_email,
	u.phone               AS broker_phone
	FROM properties p
	JOIN brokers b ON b.id = p.broker_id
	JOIN users u   ON u.id = b.user_id`

// Создать объявление
func (r *PropertyRepository) Create(ctx context.Context, p *model.Property) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO properties
            (id, broker_id, title, description, property_type, listing_type, price,
             address, city, latitude, longitude, bedrooms, bathrooms, area,
             parking_slot, wifi, security, kitchen, ac, swimming_pool, gym, pet_allowed,
             home_theater, spa, elevator, conference_room, gated_community, water_supply, electricity,
             status, is_featured, views, inquiries, created_at, updated_at)
        VALUES
            (:id, :broker_id, :title, :description, :property_type, :listing_type, :price,
             :address, :city, :latitude, :longitude, :bedrooms, :bathrooms, :area,
             :parking_slot, :wifi, :security, :kitchen, :ac, :swimming_pool, :gym, :pet_allowed,
             :home_theater, :spa, :elevator, :conference_room, :gated_community, :water_supply, :electricity,
             :status, :is_featured, :views, :inquiries, :created_at, :updated_at)
    `, p)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Create: %w", err)
	}
	return nil
}

// Получить объявление вместе с карточкой брокера
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*model.PropertyWithBroker, error) {
	var p model.PropertyWithBroker
	err := r.db.GetContext(ctx, &p, `SELECT `+brokerJoin+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.GetByID: %w", err)
	}
	return &p, nil
}

// Search выполняет скомпилированный SearchQuery: WHERE собирается из
// закрытого набора предикатов, значения уходят в $n-аргументы.
func (r *PropertyRepository) Search(ctx context.Context, q search.SearchQuery) ([]model.PropertyWithBroker, int, error) {
	where, args := renderPredicates(q.Predicates)

	var total int
	countQuery := "SELECT COUNT(*) FROM properties p" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("PropertyRepository.Search count: %w", err)
	}

	orderBy := make([]string, 0, len(q.OrderBy))
	for _, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		orderBy = append(orderBy, "p."+o.Field+" "+dir)
	}

	query := fmt.Sprintf("SELECT %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		brokerJoin, where, strings.Join(orderBy, ", "), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	var list []model.PropertyWithBroker
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("PropertyRepository.Search: %w", err)
	}
	return list, total, nil
}

// renderPredicates — единственное место, где предикаты становятся SQL.
// Имена колонок приходят из констант компилятора, не от клиента.
func renderPredicates(preds []search.Predicate) (string, []interface{}) {
	conds := []string{}
	args := []interface{}{}
	idx := 1

	for _, p := range preds {
		switch p.Kind {
		case search.KindEqual:
			conds = append(conds, fmt.Sprintf("p.%s = $%d", p.Field, idx))
			args = append(args, p.Value)
			idx++
		case search.KindAtLeast:
			conds = append(conds, fmt.Sprintf("p.%s >= $%d", p.Field, idx))
			args = append(args, p.Number)
			idx++
		case search.KindAtMost:
			conds = append(conds, fmt.Sprintf("p.%s <= $%d", p.Field, idx))
			args = append(args, p.Number)
			idx++
		case search.KindSubstringCI:
			ors := make([]string, 0, len(p.Fields))
			for _, f := range p.Fields {
				ors = append(ors, fmt.Sprintf("p.%s ILIKE $%d", f, idx))
			}
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
			args = append(args, "%"+p.Value+"%")
			idx++
		case search.KindBoolTrue:
			conds = append(conds, fmt.Sprintf("p.%s = TRUE", p.Field))
		case search.KindOneOf:
			conds = append(conds, fmt.Sprintf("p.%s = ANY($%d)", p.Field, idx))
			args = append(args, pq.Array(p.Values))
			idx++
		}
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Объявления брокера, свежие сверху
func (r *PropertyRepository) ListByBroker(ctx context.Context, brokerID string) ([]model.Property, error) {
	var list []model.Property
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM properties
		WHERE broker_id = $1
		ORDER BY created_at DESC
	`, brokerID)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.ListByBroker: %w", err)
	}
	return list, nil
}

// Обновить объявление
func (r *PropertyRepository) Update(ctx context.Context, p *model.Property) error {
	res, err := r.db.NamedExecContext(ctx, `
        UPDATE properties SET
            title           = :title,
            description     = :description,
            property_type   = :property_type,
            listing_type    = :listing_type,
            price           = :price,
            address         = :address,
            city            = :city,
            latitude        = :latitude,
            longitude       = :longitude,
            bedrooms        = :bedrooms,
            bathrooms       = :bathrooms,
            area            = :area,
            parking_slot    = :parking_slot,
            wifi            = :wifi,
            security        = :security,
            kitchen         = :kitchen,
            ac              = :ac,
            swimming_pool   = :swimming_pool,
            gym             = :gym,
            pet_allowed     = :pet_allowed,
            home_theater    = :home_theater,
            spa             = :spa,
            elevator        = :elevator,
            conference_room = :conference_room,
            gated_community = :gated_community,
            water_supply    = :water_supply,
            electricity     = :electricity,
            status          = :status,
            updated_at      = now()
        WHERE id = :id
    `, p)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Property not found")
	}
	return nil
}

// Удалить объявление
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Property not found")
	}
	return nil
}

// Счётчики монотонные: один атомарный UPDATE на событие
func (r *PropertyRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE properties SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.IncrementViews: %w", err)
	}
	return nil
}

func (r *PropertyRepository) IncrementInquiries(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE properties SET inquiries = inquiries + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.IncrementInquiries: %w", err)
	}
	return nil
}

func (r *PropertyRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE properties SET is_featured = $1, updated_at = now() WHERE id = $2
	`, featured, id)
	if err != nil {
		return fmt.Errorf("PropertyRepository.SetFeatured: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Property not found")
	}
	return nil
}

// Заявка на просмотр
func (r *PropertyRepository) CreateVisit(ctx context.Context, v *model.VisitRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO visit_requests (id, property_id, user_id, visit_date, visit_time, message, created_at)
        VALUES (:id, :property_id, :user_id, :visit_date, :visit_time, :message, :created_at)
    `, v)
	if err != nil {
		return fmt.Errorf("PropertyRepository.CreateVisit: %w", err)
	}
	return nil
}

// Агрегаты для дашборда брокера одним запросом
func (r *PropertyRepository) BrokerStats(ctx context.Context, brokerID string) (*model.BrokerPropertyStats, error) {
	var stats model.BrokerPropertyStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*)                                          AS total_properties,
			COUNT(*) FILTER (WHERE status = 'active')         AS active_listings,
			COALESCE(SUM(views), 0)                           AS total_views,
			COALESCE(SUM(inquiries), 0)                       AS inquiries
		FROM properties
		WHERE broker_id = $1
	`, brokerID)
	if err != nil {
		return nil, fmt.Errorf("PropertyRepository.BrokerStats: %w", err)
	}
	return &stats, nil
}
