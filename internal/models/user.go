package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRoleType string

const (
	UserRoleClient   UserRoleType = "CLIENT"
	UserRoleEmployee UserRoleType = "EMPLOYEE"
	UserRoleAdmin    UserRoleType = "ADMIN"
)

// MinUserAge is enforced at registration time.
const MinUserAge = 18

type User struct {
	Versioned

	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         UserRoleType `json:"role"`
	PhoneNumber  string       `json:"phone_number"`
	BirthDate    time.Time    `json:"birth_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}

// Client is the buyer-side profile, 1:1 with a User.
type Client struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is the staff-side profile, 1:1 with a User. OpenRequestCount is the
// live load counter used by least-loaded assignment; it only changes together
// with its row_version inside a transaction.
type Employee struct {
	Versioned

	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	HireDate         *time.Time `json:"hire_date,omitempty"`
	OpenRequestCount int        `json:"open_request_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Employee) GetID() string {
	return e.ID.String()
}
