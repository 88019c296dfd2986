package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatusType string

const (
	RequestStatusNew        RequestStatusType = "NEW"
	RequestStatusInProgress RequestStatusType = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatusType = "COMPLETED"
	RequestStatusCancelled  RequestStatusType = "CANCELLED"
)

// IsOpen reports whether the request still counts toward its employee's load.
func (s RequestStatusType) IsOpen() bool {
	return s == RequestStatusNew || s == RequestStatusInProgress
}

// IsTerminal reports whether no further transitions are allowed.
func (s RequestStatusType) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// PurchaseRequest is a client's declared interest in an estate. The employee
// is bound synchronously at creation by the least-loaded assignment policy;
// (estate_id, client_id) is unique.
type PurchaseRequest struct {
	Versioned

	ID         uuid.UUID         `json:"id"`
	EstateID   uuid.UUID         `json:"estate_id"`
	ClientID   uuid.UUID         `json:"client_id"`
	EmployeeID *uuid.UUID        `json:"employee_id,omitempty"`
	Message    string            `json:"message"`
	Status     RequestStatusType `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *PurchaseRequest) GetID() string {
	return r.ID.String()
}
