package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// ContentRepository covers the agency's public-site content: the about text,
// news, FAQ, promo codes, staff contacts and vacancies. All are small
// append-mostly tables.
type ContentRepository interface {
	GetAbout(ctx context.Context) (*models.AboutCompany, error)
	UpsertAbout(ctx context.Context, a *models.AboutCompany) error

	CreateNews(ctx context.Context, n *models.News) error
	ListNews(ctx context.Context) ([]*models.News, error)

	CreateFAQ(ctx context.Context, f *models.FAQ) error
	ListFAQ(ctx context.Context) ([]*models.FAQ, error)

	CreatePromoCode(ctx context.Context, p *models.PromoCode) error
	ListActivePromoCodes(ctx context.Context) ([]*models.PromoCode, error)

	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context) ([]*models.Contact, error)

	CreateVacancy(ctx context.Context, v *models.Vacancy) error
	ListVacancies(ctx context.Context) ([]*models.Vacancy, error)
}

type contentRepo struct {
	db DB
}

func NewContentRepository(db DB) ContentRepository {
	return &contentRepo{db: db}
}

func (r *contentRepo) GetAbout(ctx context.Context) (*models.AboutCompany, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, text, updated_at FROM about_company ORDER BY updated_at DESC LIMIT 1
    `)
	var a models.AboutCompany
	if err := row.Scan(&a.ID, &a.Text, &a.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// UpsertAbout keeps the table at a single row: an update that touches nothing
// falls through to the initial insert.
func (r *contentRepo) UpsertAbout(ctx context.Context, a *models.AboutCompany) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE about_company SET text=$1, updated_at=NOW()
    `, a.Text)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO about_company (id, text, updated_at) VALUES ($1,$2,NOW())
    `, a.ID, a.Text)
	return err
}

func (r *contentRepo) CreateNews(ctx context.Context, n *models.News) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO news (id, title, summary, image_url, created)
        VALUES ($1,$2,$3,$4,NOW())
    `, n.ID, n.Title, n.Summary, n.ImageURL)
	return err
}

func (r *contentRepo) ListNews(ctx context.Context) ([]*models.News, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, title, summary, image_url, created FROM news ORDER BY created DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.News
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.ImageURL, &n.Created); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *contentRepo) CreateFAQ(ctx context.Context, f *models.FAQ) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO faq (id, question, answer, added_date)
        VALUES ($1,$2,$3,NOW())
    `, f.ID, f.Question, f.Answer)
	return err
}

func (r *contentRepo) ListFAQ(ctx context.Context) ([]*models.FAQ, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, question, answer, added_date FROM faq ORDER BY added_date DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.FAQ
	for rows.Next() {
		var f models.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.AddedDate); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *contentRepo) CreatePromoCode(ctx context.Context, p *models.PromoCode) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO promo_codes (id, code, discount_percent, description, active, created_at)
        VALUES ($1,$2,$3,$4,$5,NOW())
    `, p.ID, p.Code, p.DiscountPercent, p.Description, p.Active)
	return err
}

func (r *contentRepo) ListActivePromoCodes(ctx context.Context) ([]*models.PromoCode, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, code, discount_percent, description, active, created_at
        FROM promo_codes WHERE active ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PromoCode
	for rows.Next() {
		var p models.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Description, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *contentRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO contacts (id, name, position, photo_url, description, phone, email)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, c.ID, c.Name, c.Position, c.PhotoURL, c.Description, c.Phone, c.Email)
	return err
}

func (r *contentRepo) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, name, position, photo_url, description, phone, email
        FROM contacts ORDER BY name
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.PhotoURL, &c.Description, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *contentRepo) CreateVacancy(ctx context.Context, v *models.Vacancy) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO vacancies (id, position, salary_cents, description, created_at)
        VALUES ($1,$2,$3,$4,NOW())
    `, v.ID, v.Position, v.SalaryCents, v.Description)
	return err
}

func (r *contentRepo) ListVacancies(ctx context.Context) ([]*models.Vacancy, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, position, salary_cents, description, created_at
        FROM vacancies ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Vacancy
	for rows.Next() {
		var v models.Vacancy
		if err := rows.Scan(&v.ID, &v.Position, &v.SalaryCents, &v.Description, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	List(ctx context.Context) ([]*models.Review, error)
	Update(ctx context.Context, rv *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepo struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.Rating, &rv.Text, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepo) Create(ctx context.Context, rv *models.Review) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO reviews (id, user_id, rating, text, created_at, updated_at)
        VALUES ($1,$2,$3,$4,NOW(),NOW())
    `, rv.ID, rv.UserID, rv.Rating, rv.Text)
	return err
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, user_id, rating, text, created_at, updated_at FROM reviews WHERE id=$1
    `, id)
	return scanReview(row)
}

func (r *reviewRepo) List(ctx context.Context) ([]*models.Review, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, rating, text, created_at, updated_at
        FROM reviews ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *reviewRepo) Update(ctx context.Context, rv *models.Review) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE reviews SET rating=$1, text=$2, updated_at=NOW() WHERE id=$3
    `, rv.Rating, rv.Text, rv.ID)
	if err != nil {
		return err
	}
	// The review can vanish between the ownership read and this write.
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	return err
}
