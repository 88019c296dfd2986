package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/middleware"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type RequestsController struct {
	requestService *services.RequestService
	validate       *validator.Validate
}

func NewRequestsController(rs *services.RequestService) *RequestsController {
	return &RequestsController{
		requestService: rs,
		validate:       validator.New(),
	}
}

// POST /api/v1/requests
func (c *RequestsController) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}

	var req dtos.CreatePurchaseRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON payload", nil, err,
		)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			err.Error(), nil,
		)
		return
	}

	pr, err := c.requestService.CreateRequest(r.Context(), userID, req.EstateID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEstateAlreadySold):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeConflict,
				"This estate has already been sold", nil,
			)
		case errors.Is(err, utils.ErrDuplicateRequest):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeDuplicateRequest,
				"You already have a request for this estate", nil,
			)
		case errors.Is(err, utils.ErrNoEmployeesAvailable):
			utils.RespondErrorWithCode(
				w, http.StatusServiceUnavailable, utils.ErrCodeNoEmployeesAvailable,
				"No employees are available to handle your request", nil,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to create request", nil, err,
			)
		}
		return
	}
	if pr == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Estate not found", nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, toRequestDTO(pr))
}

// GET /api/v1/requests
func (c *RequestsController) ListMyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}

	reqs, err := c.requestService.ListClientRequests(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list your requests", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRequestListResponse(reqs))
}

// GET /api/v1/employee/requests
func (c *RequestsController) ListAssignedRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}

	reqs, err := c.requestService.ListAssignedRequests(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list assigned requests", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRequestListResponse(reqs))
}

// POST /api/v1/requests/{id}/in-progress
func (c *RequestsController) MarkInProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, requestID, ok := c.authedRequestID(w, r)
	if !ok {
		return
	}

	pr, err := c.requestService.MarkInProgress(r.Context(), userID, requestID)
	if err != nil {
		respondRequestTransitionError(w, err)
		return
	}
	if pr == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Request not found", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRequestDTO(pr))
}

// POST /api/v1/requests/{id}/cancel
func (c *RequestsController) CancelRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, requestID, ok := c.authedRequestID(w, r)
	if !ok {
		return
	}

	pr, err := c.requestService.CancelRequest(r.Context(), userID, requestID)
	if err != nil {
		respondRequestTransitionError(w, err)
		return
	}
	if pr == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Request not found", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toRequestDTO(pr))
}

func (c *RequestsController) authedRequestID(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return "", uuid.Nil, false
	}
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid request id", nil, err,
		)
		return "", uuid.Nil, false
	}
	return userID, requestID, true
}

func respondRequestTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrNotAssignedEmployee):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden,
			"This request is assigned to another employee", nil,
		)
	case errors.Is(err, utils.ErrNotRequestOwner):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden,
			"You may not modify this request", nil,
		)
	case errors.Is(err, utils.ErrRequestAlreadyCompleted):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeAlreadyCompleted,
			"This request has already reached a terminal state", nil,
		)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict,
			"The request is not in a state allowing this transition", nil,
		)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeRowVersionConflict,
			"The request was modified concurrently, please retry", nil,
		)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to update request", nil, err,
		)
	}
}

func toRequestDTO(pr *models.PurchaseRequest) dtos.PurchaseRequestDTO {
	return dtos.PurchaseRequestDTO{
		RequestID:  pr.ID,
		EstateID:   pr.EstateID,
		ClientID:   pr.ClientID,
		EmployeeID: pr.EmployeeID,
		Message:    pr.Message,
		Status:     string(pr.Status),
		CreatedAt:  pr.CreatedAt,
		UpdatedAt:  pr.UpdatedAt,
	}
}

func toRequestListResponse(reqs []*models.PurchaseRequest) dtos.ListPurchaseRequestsResponse {
	resp := dtos.ListPurchaseRequestsResponse{Results: make([]dtos.PurchaseRequestDTO, 0, len(reqs))}
	for _, pr := range reqs {
		resp.Results = append(resp.Results, toRequestDTO(pr))
	}
	return resp
}
