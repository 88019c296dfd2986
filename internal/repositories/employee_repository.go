package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error)

	// ListByOpenLoad returns the full roster ordered by ascending open-request
	// count, with ties broken by roster insertion order (created_at, then id).
	ListByOpenLoad(ctx context.Context) ([]*models.Employee, error)

	// ReconcileOpenRequestCounts rewrites every employee's open_request_count
	// from the authoritative purchase_requests table and returns how many rows
	// had drifted.
	ReconcileOpenRequestCounts(ctx context.Context) (int64, error)
}

type employeeRepo struct {
	*BaseVersionedRepo[*models.Employee]
	db DB
}

func NewEmployeeRepository(db DB) EmployeeRepository {
	r := &employeeRepo{db: db}
	selectStmt := baseSelectEmployee() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanEmployee)
	return r
}

func baseSelectEmployee() string {
	return `
        SELECT
            id, user_id, hire_date, open_request_count,
            row_version, created_at, updated_at
        FROM employees
    `
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.HireDate, &e.OpenRequestCount,
		&e.RowVersion, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) Create(ctx context.Context, e *models.Employee) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO employees (
            id, user_id, hire_date, open_request_count,
            row_version, created_at, updated_at
        ) VALUES ($1,$2,$3,0,1,NOW(),NOW())
    `, e.ID, e.UserID, e.HireDate)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error) {
	row := r.db.QueryRow(ctx, baseSelectEmployee()+" WHERE user_id=$1", userID)
	return scanEmployee(row)
}

func (r *employeeRepo) ListByOpenLoad(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.db.Query(ctx, baseSelectEmployee()+`
        ORDER BY open_request_count ASC, created_at ASC, id ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *employeeRepo) ReconcileOpenRequestCounts(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE employees e
        SET open_request_count = sub.actual,
            row_version = row_version + 1,
            updated_at = NOW()
        FROM (
            SELECT e2.id,
                   COUNT(pr.id) FILTER (WHERE pr.status IN ('NEW','IN_PROGRESS')) AS actual
            FROM employees e2
            LEFT JOIN purchase_requests pr ON pr.employee_id = e2.id
            GROUP BY e2.id
        ) sub
        WHERE sub.id = e.id AND e.open_request_count <> sub.actual
    `)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
