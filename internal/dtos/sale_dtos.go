package dtos

import (
	"time"

	"github.com/google/uuid"
)

type SaleDTO struct {
	SaleID         uuid.UUID `json:"sale_id"`
	EstateID       uuid.UUID `json:"estate_id"`
	ClientID       uuid.UUID `json:"client_id"`
	EmployeeID     uuid.UUID `json:"employee_id"`
	DateOfContract time.Time `json:"date_of_contract"`
	DateOfSale     time.Time `json:"date_of_sale"`
	CostCents      int64     `json:"cost_cents"`
}

type ListSalesResponse struct {
	Results []SaleDTO `json:"results"`
}
