package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/middleware"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type SalesController struct {
	saleService *services.SaleService
}

func NewSalesController(ss *services.SaleService) *SalesController {
	return &SalesController{saleService: ss}
}

// POST /api/v1/requests/{id}/finalize
func (c *SalesController) FinalizeSaleHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid request id", nil, err,
		)
		return
	}

	sale, err := c.saleService.FinalizeSale(r.Context(), userID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrNotAssignedEmployee):
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden,
				"This request is assigned to another employee", nil,
			)
		case errors.Is(err, utils.ErrRequestAlreadyCompleted):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeAlreadyCompleted,
				"This request has already reached a terminal state", nil,
			)
		case errors.Is(err, utils.ErrEstateAlreadySold):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeConflict,
				"This estate has already been sold", nil,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Failed to finalize sale", nil, err,
			)
		}
		return
	}
	if sale == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Request not found", nil,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, toSaleDTO(sale))
}

// GET /api/v1/employee/sales
func (c *SalesController) ListMySalesHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}

	sales, err := c.saleService.ListEmployeeSales(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list your sales", nil, err,
		)
		return
	}

	resp := dtos.ListSalesResponse{Results: make([]dtos.SaleDTO, 0, len(sales))}
	for _, s := range sales {
		resp.Results = append(resp.Results, toSaleDTO(s))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func toSaleDTO(s *models.Sale) dtos.SaleDTO {
	return dtos.SaleDTO{
		SaleID:         s.ID,
		EstateID:       s.EstateID,
		ClientID:       s.ClientID,
		EmployeeID:     s.EmployeeID,
		DateOfContract: s.DateOfContract,
		DateOfSale:     s.DateOfSale,
		CostCents:      s.CostCents,
	}
}
