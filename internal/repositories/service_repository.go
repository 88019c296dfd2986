package repositories

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
)

// ServiceFilter narrows the public service listing.
type ServiceFilter struct {
	CategoryID  *uuid.UUID
	MinFeeCents *int64
	MaxFeeCents *int64
}

type ServiceRepository interface {
	CreateCategory(ctx context.Context, c *models.ServiceCategory) error
	Create(ctx context.Context, s *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	List(ctx context.Context, f ServiceFilter) ([]*models.Service, error)
	ListCategories(ctx context.Context) ([]*models.ServiceCategory, error)
}

type serviceRepo struct {
	db DB
}

func NewServiceRepository(db DB) ServiceRepository {
	return &serviceRepo{db: db}
}

func scanService(row pgx.Row) (*models.Service, error) {
	var s models.Service
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.FeeCents, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepo) CreateCategory(ctx context.Context, c *models.ServiceCategory) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO service_categories (id, name) VALUES ($1,$2)
    `, c.ID, c.Name)
	return err
}

func (r *serviceRepo) Create(ctx context.Context, s *models.Service) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO services (id, category_id, name, fee_cents, created_at)
        VALUES ($1,$2,$3,$4,NOW())
    `, s.ID, s.CategoryID, s.Name, s.FeeCents)
	return err
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, category_id, name, fee_cents, created_at FROM services WHERE id=$1
    `, id)
	return scanService(row)
}

func (r *serviceRepo) List(ctx context.Context, f ServiceFilter) ([]*models.Service, error) {
	var (
		qb   strings.Builder
		args []any
		idx  = 1
	)

	qb.WriteString(`SELECT s.id, s.category_id, s.name, s.fee_cents, s.created_at FROM services s`)
	qb.WriteString(" WHERE 1=1")

	if f.CategoryID != nil {
		qb.WriteString(" AND s.category_id = $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.CategoryID)
		idx++
	}
	if f.MinFeeCents != nil {
		qb.WriteString(" AND s.fee_cents >= $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.MinFeeCents)
		idx++
	}
	if f.MaxFeeCents != nil {
		qb.WriteString(" AND s.fee_cents <= $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.MaxFeeCents)
		idx++
	}

	// Mirrors the catalog presentation order: category first, then name.
	qb.WriteString(`
        ORDER BY (SELECT name FROM service_categories sc WHERE sc.id = s.category_id), s.name
    `)

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *serviceRepo) ListCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM service_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ServiceCategory
	for rows.Next() {
		var c models.ServiceCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
