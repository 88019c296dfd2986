package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Client, error)

	// ListBirthDates returns the birth dates of all clients whose user row has
	// one set; input to the client-age statistics.
	ListBirthDates(ctx context.Context) ([]time.Time, error)
}

type clientRepo struct {
	db DB
}

func NewClientRepository(db DB) ClientRepository {
	return &clientRepo{db: db}
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO clients (id, user_id, created_at) VALUES ($1,$2,NOW())
    `, c.ID, c.UserID)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, created_at FROM clients WHERE id=$1`, id)
	return scanClient(row)
}

func (r *clientRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Client, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, created_at FROM clients WHERE user_id=$1`, userID)
	return scanClient(row)
}

func (r *clientRepo) ListBirthDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `
        SELECT u.birth_date
        FROM clients c
        JOIN users u ON u.id = c.user_id
        WHERE u.birth_date IS NOT NULL
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var bd time.Time
		if err := rows.Scan(&bd); err != nil {
			return nil, err
		}
		out = append(out, bd)
	}
	return out, rows.Err()
}
