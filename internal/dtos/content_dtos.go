package dtos

import (
	"time"

	"github.com/google/uuid"
)

type AboutDTO struct {
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateAboutRequest struct {
	Text string `json:"text" validate:"required,max=8000"`
}

type ContactDTO struct {
	ContactID   uuid.UUID `json:"contact_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
}

type CreateContactRequest struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Position    string  `json:"position" validate:"required,max=128"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	Description string  `json:"description" validate:"max=2000"`
	Phone       string  `json:"phone" validate:"required,max=32"`
	Email       string  `json:"email" validate:"required,email"`
}

type VacancyDTO struct {
	VacancyID   uuid.UUID `json:"vacancy_id"`
	Position    string    `json:"position"`
	SalaryCents int64     `json:"salary_cents"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateVacancyRequest struct {
	Position    string `json:"position" validate:"required,max=128"`
	SalaryCents int64  `json:"salary_cents" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=4000"`
}

type NewsDTO struct {
	NewsID   uuid.UUID `json:"news_id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	ImageURL *string   `json:"image_url,omitempty"`
	Created  time.Time `json:"created"`
}

type CreateNewsRequest struct {
	Title    string  `json:"title" validate:"required,max=256"`
	Summary  string  `json:"summary" validate:"required,max=4000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type FAQDTO struct {
	FAQID     uuid.UUID `json:"faq_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	AddedDate time.Time `json:"added_date"`
}

type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,max=512"`
	Answer   string `json:"answer" validate:"required,max=4000"`
}

type PromoCodeDTO struct {
	PromoCodeID     uuid.UUID `json:"promo_code_id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	Description     string    `json:"description,omitempty"`
}

type CreatePromoCodeRequest struct {
	Code            string `json:"code" validate:"required,max=32"`
	DiscountPercent int    `json:"discount_percent" validate:"required,gte=1,lte=100"`
	Description     string `json:"description" validate:"max=512"`
}

type ReviewDTO struct {
	ReviewID  uuid.UUID `json:"review_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required,max=2000"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required,max=2000"`
}
