package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory groups services ("Premium", "Standard", ...).
type ServiceCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Service is a service tier attached to estates; its fee is added to the
// estate cost when a sale is finalized.
type Service struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	FeeCents   int64     `json:"fee_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type Estate struct {
	ID          uuid.UUID  `json:"id"`
	CostCents   int64      `json:"cost_cents"`
	AreaSqm     float64    `json:"area_sqm"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
