package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type PurchaseRequestRepository interface {
	// CreateAssignedAtomic persists a new request bound to the given employee
	// and bumps that employee's open-request counter in the same transaction.
	// The employee row is guarded by its row_version: if another assignment
	// won the race first, nothing is written and ErrRowVersionConflict is
	// returned so the caller can re-pick against fresh counts.
	CreateAssignedAtomic(ctx context.Context, req *models.PurchaseRequest, employeeID uuid.UUID, expectedEmployeeVersion int64) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error)
	GetByEstateAndClient(ctx context.Context, estateID, clientID uuid.UUID) (*models.PurchaseRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.PurchaseRequest, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, statuses []models.RequestStatusType) ([]*models.PurchaseRequest, error)

	MarkInProgressAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64) (*models.PurchaseRequest, error)

	// CancelAtomic moves an open request to CANCELLED and releases its
	// employee's load slot.
	CancelAtomic(ctx context.Context, id uuid.UUID, expectedVersion int64) (*models.PurchaseRequest, error)
}

type purchaseRequestRepo struct {
	db DB
}

func NewPurchaseRequestRepository(db DB) PurchaseRequestRepository {
	return &purchaseRequestRepo{db: db}
}

func baseSelectRequest() string {
	return `
        SELECT
            id, estate_id, client_id, employee_id, message, status,
            row_version, created_at, updated_at
        FROM purchase_requests
    `
}

func scanRequest(row pgx.Row) (*models.PurchaseRequest, error) {
	var pr models.PurchaseRequest
	var status string
	err := row.Scan(
		&pr.ID, &pr.EstateID, &pr.ClientID, &pr.EmployeeID, &pr.Message, &status,
		&pr.RowVersion, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	pr.Status = models.RequestStatusType(status)
	return &pr, nil
}

func (r *purchaseRequestRepo) CreateAssignedAtomic(
	ctx context.Context,
	req *models.PurchaseRequest,
	employeeID uuid.UUID,
	expectedEmployeeVersion int64,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
        UPDATE employees
        SET open_request_count=open_request_count+1,
            row_version=row_version+1, updated_at=NOW()
        WHERE id=$1 AND row_version=$2
    `, employeeID, expectedEmployeeVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = utils.ErrRowVersionConflict
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO purchase_requests (
            id, estate_id, client_id, employee_id, message, status,
            row_version, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,1,NOW(),NOW())
    `,
		req.ID, req.EstateID, req.ClientID, employeeID, req.Message,
		string(models.RequestStatusNew),
	)
	if isUniqueViolation(err) {
		err = utils.ErrDuplicateRequest
		return err
	}
	if err != nil {
		return err
	}

	req.EmployeeID = &employeeID
	req.Status = models.RequestStatusNew
	req.RowVersion = 1
	return nil
}

func (r *purchaseRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", id)
	return scanRequest(row)
}

func (r *purchaseRequestRepo) GetByEstateAndClient(ctx context.Context, estateID, clientID uuid.UUID) (*models.PurchaseRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectRequest()+" WHERE estate_id=$1 AND client_id=$2", estateID, clientID)
	return scanRequest(row)
}

func (r *purchaseRequestRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.PurchaseRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectRequest()+" WHERE client_id=$1 ORDER BY created_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *purchaseRequestRepo) ListByEmployee(
	ctx context.Context,
	employeeID uuid.UUID,
	statuses []models.RequestStatusType,
) ([]*models.PurchaseRequest, error) {
	query := baseSelectRequest() + " WHERE employee_id=$1"
	args := []any{employeeID}

	if len(statuses) > 0 {
		var stStrings []string
		for _, st := range statuses {
			stStrings = append(stStrings, string(st))
		}
		query += " AND status = ANY($2)"
		args = append(args, stStrings)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*models.PurchaseRequest, error) {
	var out []*models.PurchaseRequest
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *purchaseRequestRepo) MarkInProgressAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
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

	row := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1 FOR UPDATE", id)
	pr, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if pr.RowVersion != expectedVersion {
		err = utils.ErrRowVersionConflict
		return pr, err
	}
	if pr.Status != models.RequestStatusNew {
		err = utils.ErrWrongStatus
		return pr, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE purchase_requests
        SET status=$1, row_version=row_version+1, updated_at=NOW()
        WHERE id=$2
    `, string(models.RequestStatusInProgress), id)
	if err != nil {
		return nil, err
	}

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", id)
	return scanRequest(newRow)
}

func (r *purchaseRequestRepo) CancelAtomic(
	ctx context.Context,
	id uuid.UUID,
	expectedVersion int64,
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

	row := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1 FOR UPDATE", id)
	pr, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		err = pgx.ErrNoRows
		return nil, err
	}
	if pr.RowVersion != expectedVersion {
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
    `, string(models.RequestStatusCancelled), id)
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

	newRow := tx.QueryRow(ctx, baseSelectRequest()+" WHERE id=$1", id)
	return scanRequest(newRow)
}
