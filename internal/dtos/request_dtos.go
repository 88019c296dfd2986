package dtos

import (
	"time"

	"github.com/google/uuid"
)

type CreatePurchaseRequestRequest struct {
	EstateID uuid.UUID `json:"estate_id" validate:"required"`
	Message  string    `json:"message" validate:"max=2000"`
}

type PurchaseRequestDTO struct {
	RequestID  uuid.UUID  `json:"request_id"`
	EstateID   uuid.UUID  `json:"estate_id"`
	ClientID   uuid.UUID  `json:"client_id"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	Message    string     `json:"message,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ListPurchaseRequestsResponse struct {
	Results []PurchaseRequestDTO `json:"results"`
}
