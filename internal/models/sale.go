package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the finalized transaction for an estate. CostCents is derived once
// at construction and never recomputed, even if the estate or its service fee
// changes later. An estate has at most one sale.
type Sale struct {
	ID             uuid.UUID `json:"id"`
	EstateID       uuid.UUID `json:"estate_id"`
	ClientID       uuid.UUID `json:"client_id"`
	EmployeeID     uuid.UUID `json:"employee_id"`
	DateOfContract time.Time `json:"date_of_contract"`
	DateOfSale     time.Time `json:"date_of_sale"`
	CostCents      int64     `json:"cost_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewSale freezes the total cost at construction: estate cost plus the
// service fee, or the estate cost alone when the estate has no service tier.
// The caller passes svc == nil when estate.ServiceID is nil.
func NewSale(estate *Estate, svc *Service, clientID, employeeID uuid.UUID, now time.Time) *Sale {
	var fee int64
	if svc != nil {
		fee = svc.FeeCents
	}
	return &Sale{
		ID:             uuid.New(),
		EstateID:       estate.ID,
		ClientID:       clientID,
		EmployeeID:     employeeID,
		DateOfContract: now,
		DateOfSale:     now,
		CostCents:      estate.CostCents + fee,
	}
}
