package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// SaleCostRow pairs a frozen sale cost with the service fee of the sold
// estate's tier (nil when the estate had none). Input to sale statistics.
type SaleCostRow struct {
	CostCents       int64
	ServiceFeeCents *int64
}

type SaleRepository interface {
	// FinalizeFromRequest inserts the sale and flips its purchase request to
	// COMPLETED in one transaction. The request row is locked and re-checked
	// inside the transaction: that status guard is the enforcement point for
	// finalize-once semantics (the unique sales.estate_id index is a backstop).
	// The assigned employee's open-request counter is released as well.
	FinalizeFromRequest(ctx context.Context, sale *models.Sale, requestID uuid.UUID, expectedRequestVersion int64) (*models.PurchaseRequest, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	GetByEstateID(ctx context.Context, estateID uuid.UUID) (*models.Sale, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.Sale, error)
	ListCostRows(ctx context.Context) ([]SaleCostRow, error)
}

type saleRepo struct {
	db DB
}

func NewSaleRepository(db DB) SaleRepository {
	return &saleRepo{db: db}
}

func baseSelectSale() string {
	return `
        SELECT
            id, estate_id, client_id, employee_id,
            date_of_contract, date_of_sale, cost_cents, created_at
        FROM sales
    `
}

func scanSale(row pgx.Row) (*models.Sale, error) {
	var s models.Sale
	err := row.Scan(
		&s.ID, &s.EstateID, &s.ClientID, &s.EmployeeID,
		&s.DateOfContract, &s.DateOfSale, &s.CostCents, &s.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FinalizeFromRequest(
	ctx context.Context,
	sale *models.Sale,
	requestID uuid.UUID,
	expectedRequestVersion int64,
) (*models.PurchaseRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	row := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1 FOR UPDATE", requestID)
	pr, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if pr.RowVersion != expectedRequestVersion {
		err = utils.ErrRowVersionConflict
		return pr, err
	}
	if pr.Status.IsTerminal() {
		err = utils.ErrRequestAlreadyCompleted
		return pr, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE purchase_requests
        SET status=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, string(models.RequestStatusCompleted), requestID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO sales (
            id, estate_id, client_id, employee_id,
            date_of_contract, date_of_sale, cost_cents, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
    `,
		sale.ID, sale.EstateID, sale.ClientID, sale.EmployeeID,
		sale.DateOfContract, sale.DateOfSale, sale.CostCents,
	)
	if isUniqueViolation(err) {
		err = utils.ErrEstateAlreadySold
		return pr, err
	}
	if err != nil {
		return nil, err
	}

	if pr.EmployeeID != nil {
		_, err = tx.Exec(ctx, `
            UPDATE employees
            SET open_request_count=GREATEST(open_request_count-1,0),
                row_version=row_version+1, updated_at=NOW()
            WHERE id=$1
        `, *pr.EmployeeID)
		if err != nil {
			return nil, err
		}
	}

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", requestID)
	return scanRequest(newRow)
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	row := r.db.QueryRow(ctx, baseSelectSale()+" WHERE id=$1", id)
	return scanSale(row)
}

func (r *saleRepo) GetByEstateID(ctx context.Context, estateID uuid.UUID) (*models.Sale, error) {
	row := r.db.QueryRow(ctx, baseSelectSale()+" WHERE estate_id=$1", estateID)
	return scanSale(row)
}

func (r *saleRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.Sale, error) {
	rows, err := r.db.Query(ctx, baseSelectSale()+" WHERE employee_id=$1 ORDER BY date_of_sale DESC", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *saleRepo) ListCostRows(ctx context.Context) ([]SaleCostRow, error) {
	rows, err := r.db.Query(ctx, `
        SELECT s.cost_cents, sv.fee_cents
        FROM sales s
        JOIN estates e ON e.id = s.estate_id
        LEFT JOIN services sv ON sv.id = e.service_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaleCostRow
	for rows.Next() {
		var row SaleCostRow
		if err := rows.Scan(&row.CostCents, &row.ServiceFeeCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
