package models

import (
	"time"

	"github.com/google/uuid"
)

type News struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	ImageURL *string   `json:"image_url,omitempty"`
	Created  time.Time `json:"created"`
}

type FAQ struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	AddedDate time.Time `json:"added_date"`
}

type PromoCode struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	Description     string    `json:"description"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// AboutCompany is the single editable text block behind the about page.
type AboutCompany struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is a staff card shown on the contacts page.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
}

type Vacancy struct {
	ID          uuid.UUID `json:"id"`
	Position    string    `json:"position"`
	SalaryCents int64     `json:"salary_cents"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
