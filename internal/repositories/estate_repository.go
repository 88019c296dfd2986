package repositories

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
)

// EstateFilter narrows the public catalog listing. Zero values mean "no
// constraint". Sort accepts "cost", "-cost", "area", "-area"; anything else
// falls back to newest-first.
type EstateFilter struct {
	Search       string
	ServiceID    *uuid.UUID
	MinCostCents *int64
	MaxCostCents *int64
	Sort         string
	IncludeSold  bool
}

type EstateRepository interface {
	Create(ctx context.Context, e *models.Estate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Estate, error)
	List(ctx context.Context, f EstateFilter) ([]*models.Estate, error)
}

type estateRepo struct {
	db DB
}

func NewEstateRepository(db DB) EstateRepository {
	return &estateRepo{db: db}
}

func baseSelectEstate() string {
	return `
        SELECT
            e.id, e.cost_cents, e.area_sqm, e.service_id,
            e.description, e.address, e.image_url, e.created_at
        FROM estates e
    `
}

func scanEstate(row pgx.Row) (*models.Estate, error) {
	var e models.Estate
	err := row.Scan(
		&e.ID, &e.CostCents, &e.AreaSqm, &e.ServiceID,
		&e.Description, &e.Address, &e.ImageURL, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *estateRepo) Create(ctx context.Context, e *models.Estate) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO estates (
            id, cost_cents, area_sqm, service_id,
            description, address, image_url, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `,
		e.ID, e.CostCents, e.AreaSqm, e.ServiceID,
		e.Description, e.Address, e.ImageURL,
	)
	return err
}

func (r *estateRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Estate, error) {
	row := r.db.QueryRow(ctx, baseSelectEstate()+" WHERE e.id=$1", id)
	return scanEstate(row)
}

func (r *estateRepo) List(ctx context.Context, f EstateFilter) ([]*models.Estate, error) {
	var (
		qb   strings.Builder
		args []any
		idx  = 1
	)

	qb.WriteString(baseSelectEstate())
	qb.WriteString(" WHERE 1=1")

	if !f.IncludeSold {
		qb.WriteString(" AND NOT EXISTS (SELECT 1 FROM sales s WHERE s.estate_id = e.id)")
	}

	if f.Search != "" {
		qb.WriteString(" AND (e.address ILIKE $")
		qb.WriteString(strconv.Itoa(idx))
		qb.WriteString(" OR e.description ILIKE $")
		qb.WriteString(strconv.Itoa(idx))
		qb.WriteString(")")
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	if f.ServiceID != nil {
		qb.WriteString(" AND e.service_id = $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.ServiceID)
		idx++
	}

	if f.MinCostCents != nil {
		qb.WriteString(" AND e.cost_cents >= $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.MinCostCents)
		idx++
	}

	if f.MaxCostCents != nil {
		qb.WriteString(" AND e.cost_cents <= $")
		qb.WriteString(strconv.Itoa(idx))
		args = append(args, *f.MaxCostCents)
		idx++
	}

	switch f.Sort {
	case "cost":
		qb.WriteString(" ORDER BY e.cost_cents ASC")
	case "-cost":
		qb.WriteString(" ORDER BY e.cost_cents DESC")
	case "area":
		qb.WriteString(" ORDER BY e.area_sqm ASC")
	case "-area":
		qb.WriteString(" ORDER BY e.area_sqm DESC")
	default:
		qb.WriteString(" ORDER BY e.created_at DESC")
	}

	rows, err := r.db.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Estate
	for rows.Next() {
		e, err := scanEstate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
