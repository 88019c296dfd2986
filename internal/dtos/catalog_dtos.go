package dtos

import (
	"time"

	"github.com/google/uuid"
)

// ListEstatesQuery carries the query-string filters of GET /api/v1/estates.
type ListEstatesQuery struct {
	Search       string
	ServiceID    *uuid.UUID
	MinCostCents *int64
	MaxCostCents *int64
	// One of: cost, -cost, area, -area. Empty means newest first.
	Sort        string
	IncludeSold bool
}

type EstateDTO struct {
	EstateID    uuid.UUID  `json:"estate_id"`
	CostCents   int64      `json:"cost_cents"`
	AreaSqm     float64    `json:"area_sqm"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type EstateDetailDTO struct {
	EstateDTO
	Sold    bool        `json:"sold"`
	Service *ServiceDTO `json:"service,omitempty"`
}

type ListEstatesResponse struct {
	Results []EstateDTO `json:"results"`
	Total   int         `json:"total"`
}

type ServiceDTO struct {
	ServiceID  uuid.UUID `json:"service_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	FeeCents   int64     `json:"fee_cents"`
}

type ServiceCategoryDTO struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

type ListServicesResponse struct {
	Results []ServiceDTO `json:"results"`
}

type ListServiceCategoriesResponse struct {
	Results []ServiceCategoryDTO `json:"results"`
}

type CreateEstateRequest struct {
	CostCents   int64      `json:"cost_cents" validate:"required,gt=0"`
	AreaSqm     float64    `json:"area_sqm" validate:"required,gt=0"`
	ServiceID   *uuid.UUID `json:"service_id"`
	Description string     `json:"description" validate:"max=4000"`
	Address     string     `json:"address" validate:"required,max=512"`
	ImageURL    *string    `json:"image_url" validate:"omitempty,url"`
}
