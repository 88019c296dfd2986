package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type CatalogController struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

func NewCatalogController(cs *services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: cs,
		validate:       validator.New(),
	}
}

// GET /api/v1/estates
func (c *CatalogController) ListEstatesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEstateFilter(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			err.Error(), nil,
		)
		return
	}

	estates, err := c.catalogService.ListEstates(r.Context(), filter)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list estates", nil, err,
		)
		return
	}

	resp := dtos.ListEstatesResponse{Results: make([]dtos.EstateDTO, 0, len(estates)), Total: len(estates)}
	for _, e := range estates {
		resp.Results = append(resp.Results, toEstateDTO(e))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/estates/{id}
func (c *CatalogController) GetEstateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid estate id", nil, err,
		)
		return
	}

	detail, err := c.catalogService.GetEstate(r.Context(), id)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load estate", nil, err,
		)
		return
	}
	if detail == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Estate not found", nil,
		)
		return
	}

	resp := dtos.EstateDetailDTO{
		EstateDTO: toEstateDTO(detail.Estate),
		Sold:      detail.Sold,
	}
	if detail.Service != nil {
		svc := toServiceDTO(detail.Service)
		resp.Service = &svc
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/admin/estates
func (c *CatalogController) CreateEstateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateEstateRequest
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

	estate := &models.Estate{
		CostCents:   req.CostCents,
		AreaSqm:     req.AreaSqm,
		ServiceID:   req.ServiceID,
		Description: req.Description,
		Address:     req.Address,
		ImageURL:    req.ImageURL,
	}
	if err := c.catalogService.CreateEstate(r.Context(), estate); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create estate", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toEstateDTO(estate))
}

// GET /api/v1/services
func (c *CatalogController) ListServicesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseServiceFilter(r)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			err.Error(), nil,
		)
		return
	}

	svcs, err := c.catalogService.ListServices(r.Context(), filter)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list services", nil, err,
		)
		return
	}

	resp := dtos.ListServicesResponse{Results: make([]dtos.ServiceDTO, 0, len(svcs))}
	for _, s := range svcs {
		resp.Results = append(resp.Results, toServiceDTO(s))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/services/categories
func (c *CatalogController) ListServiceCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := c.catalogService.ListServiceCategories(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list service categories", nil, err,
		)
		return
	}

	resp := dtos.ListServiceCategoriesResponse{Results: make([]dtos.ServiceCategoryDTO, 0, len(cats))}
	for _, cat := range cats {
		resp.Results = append(resp.Results, dtos.ServiceCategoryDTO{CategoryID: cat.ID, Name: cat.Name})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func parseEstateFilter(r *http.Request) (repositories.EstateFilter, error) {
	q := r.URL.Query()
	f := repositories.EstateFilter{
		Search:      q.Get("search"),
		Sort:        q.Get("sort"),
		IncludeSold: q.Get("include_sold") == "true",
	}

	if raw := q.Get("service_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, err
		}
		f.ServiceID = &id
	}
	var err error
	if f.MinCostCents, err = parseCentsParam(q.Get("min_cost_cents")); err != nil {
		return f, err
	}
	if f.MaxCostCents, err = parseCentsParam(q.Get("max_cost_cents")); err != nil {
		return f, err
	}
	return f, nil
}

func parseServiceFilter(r *http.Request) (repositories.ServiceFilter, error) {
	q := r.URL.Query()
	var f repositories.ServiceFilter

	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, err
		}
		f.CategoryID = &id
	}
	var err error
	if f.MinFeeCents, err = parseCentsParam(q.Get("min_fee_cents")); err != nil {
		return f, err
	}
	if f.MaxFeeCents, err = parseCentsParam(q.Get("max_fee_cents")); err != nil {
		return f, err
	}
	return f, nil
}

func parseCentsParam(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func toEstateDTO(e *models.Estate) dtos.EstateDTO {
	return dtos.EstateDTO{
		EstateID:    e.ID,
		CostCents:   e.CostCents,
		AreaSqm:     e.AreaSqm,
		ServiceID:   e.ServiceID,
		Description: e.Description,
		Address:     e.Address,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
	}
}

func toServiceDTO(s *models.Service) dtos.ServiceDTO {
	return dtos.ServiceDTO{
		ServiceID:  s.ID,
		CategoryID: s.CategoryID,
		Name:       s.Name,
		FeeCents:   s.FeeCents,
	}
}
