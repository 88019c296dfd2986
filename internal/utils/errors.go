package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrNoEmployeesAvailable     = errors.New("no_employees_available")
	ErrDuplicateRequest         = errors.New("duplicate_request")
	ErrRequestAlreadyCompleted  = errors.New("request_already_completed")
	ErrWrongStatus              = errors.New("wrong_status")
	ErrEstateAlreadySold        = errors.New("estate_already_sold")
	ErrNotRequestOwner          = errors.New("not_request_owner")
	ErrNotAssignedEmployee      = errors.New("not_assigned_employee")
	ErrEmailExists              = errors.New("email_exists")
	ErrInvalidCredentials       = errors.New("invalid_credentials")
	ErrUnderage                 = errors.New("underage")
	ErrNotReviewOwner           = errors.New("not_review_owner")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
