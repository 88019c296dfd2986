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

type ContentController struct {
	contentService *services.ContentService
	validate       *validator.Validate
}

func NewContentController(cs *services.ContentService) *ContentController {
	return &ContentController{
		contentService: cs,
		validate:       validator.New(),
	}
}

// GET /api/v1/about
func (c *ContentController) AboutHandler(w http.ResponseWriter, r *http.Request) {
	about, err := c.contentService.About(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load about text", nil, err,
		)
		return
	}
	if about == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"About text is not set yet", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AboutDTO{Text: about.Text, UpdatedAt: about.UpdatedAt})
}

// PUT /api/v1/admin/about
func (c *ContentController) UpdateAboutHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateAboutRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	about, err := c.contentService.UpdateAbout(r.Context(), req.Text)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to update about text", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AboutDTO{Text: about.Text, UpdatedAt: about.UpdatedAt})
}

// GET /api/v1/contacts
func (c *ContentController) ListContactsHandler(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.contentService.ListContacts(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list contacts", nil, err,
		)
		return
	}
	out := make([]dtos.ContactDTO, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, toContactDTO(ct))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/admin/contacts
func (c *ContentController) CreateContactHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateContactRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	ct, err := c.contentService.CreateContact(
		r.Context(), req.Name, req.Position, req.PhotoURL,
		req.Description, req.Phone, req.Email,
	)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create contact", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toContactDTO(ct))
}

// GET /api/v1/vacancies
func (c *ContentController) ListVacanciesHandler(w http.ResponseWriter, r *http.Request) {
	vacancies, err := c.contentService.ListVacancies(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list vacancies", nil, err,
		)
		return
	}
	out := make([]dtos.VacancyDTO, 0, len(vacancies))
	for _, v := range vacancies {
		out = append(out, toVacancyDTO(v))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/admin/vacancies
func (c *ContentController) CreateVacancyHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateVacancyRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	v, err := c.contentService.CreateVacancy(r.Context(), req.Position, req.SalaryCents, req.Description)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create vacancy", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toVacancyDTO(v))
}

// GET /api/v1/news
func (c *ContentController) ListNewsHandler(w http.ResponseWriter, r *http.Request) {
	news, err := c.contentService.ListNews(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list news", nil, err,
		)
		return
	}
	out := make([]dtos.NewsDTO, 0, len(news))
	for _, n := range news {
		out = append(out, dtos.NewsDTO{
			NewsID: n.ID, Title: n.Title, Summary: n.Summary,
			ImageURL: n.ImageURL, Created: n.Created,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/admin/news
func (c *ContentController) CreateNewsHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateNewsRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.contentService.CreateNews(r.Context(), req.Title, req.Summary, req.ImageURL)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create news", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewsDTO{
		NewsID: n.ID, Title: n.Title, Summary: n.Summary,
		ImageURL: n.ImageURL, Created: n.Created,
	})
}

// GET /api/v1/faq
func (c *ContentController) ListFAQHandler(w http.ResponseWriter, r *http.Request) {
	faq, err := c.contentService.ListFAQ(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list FAQ", nil, err,
		)
		return
	}
	out := make([]dtos.FAQDTO, 0, len(faq))
	for _, f := range faq {
		out = append(out, dtos.FAQDTO{
			FAQID: f.ID, Question: f.Question, Answer: f.Answer, AddedDate: f.AddedDate,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/admin/faq
func (c *ContentController) CreateFAQHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateFAQRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	f, err := c.contentService.CreateFAQ(r.Context(), req.Question, req.Answer)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create FAQ entry", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.FAQDTO{
		FAQID: f.ID, Question: f.Question, Answer: f.Answer, AddedDate: f.AddedDate,
	})
}

// GET /api/v1/promo-codes
func (c *ContentController) ListPromoCodesHandler(w http.ResponseWriter, r *http.Request) {
	promos, err := c.contentService.ListActivePromoCodes(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list promo codes", nil, err,
		)
		return
	}
	out := make([]dtos.PromoCodeDTO, 0, len(promos))
	for _, p := range promos {
		out = append(out, dtos.PromoCodeDTO{
			PromoCodeID: p.ID, Code: p.Code,
			DiscountPercent: p.DiscountPercent, Description: p.Description,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/admin/promo-codes
func (c *ContentController) CreatePromoCodeHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePromoCodeRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.contentService.CreatePromoCode(r.Context(), req.Code, req.DiscountPercent, req.Description)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create promo code", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.PromoCodeDTO{
		PromoCodeID: p.ID, Code: p.Code,
		DiscountPercent: p.DiscountPercent, Description: p.Description,
	})
}

// GET /api/v1/reviews
func (c *ContentController) ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.contentService.ListReviews(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to list reviews", nil, err,
		)
		return
	}
	out := make([]dtos.ReviewDTO, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewDTO(rv))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/reviews
func (c *ContentController) CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}
	var req dtos.CreateReviewRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	rv, err := c.contentService.CreateReview(r.Context(), userID, req.Rating, req.Text)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to create review", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toReviewDTO(rv))
}

// PUT /api/v1/reviews/{id}
func (c *ContentController) UpdateReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid review id", nil, err,
		)
		return
	}
	var req dtos.UpdateReviewRequest
	if !c.decodeAndValidate(w, r, &req) {
		return
	}

	rv, err := c.contentService.UpdateReview(r.Context(), userID, reviewID, req.Rating, req.Text)
	if err != nil {
		if errors.Is(err, utils.ErrNotReviewOwner) {
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden,
				"You may only edit your own reviews", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to update review", nil, err,
		)
		return
	}
	if rv == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Review not found", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toReviewDTO(rv))
}

// DELETE /api/v1/reviews/{id}
func (c *ContentController) DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return
	}
	reviewID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid review id", nil, err,
		)
		return
	}

	role := middleware.RoleFromContext(r.Context())
	if err := c.contentService.DeleteReview(r.Context(), userID, role, reviewID); err != nil {
		if errors.Is(err, utils.ErrNotReviewOwner) {
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden,
				"You may only delete your own reviews", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to delete review", nil, err,
		)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContentController) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON payload", nil, err,
		)
		return false
	}
	if err := c.validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			err.Error(), nil,
		)
		return false
	}
	return true
}

func toContactDTO(ct *models.Contact) dtos.ContactDTO {
	return dtos.ContactDTO{
		ContactID:   ct.ID,
		Name:        ct.Name,
		Position:    ct.Position,
		PhotoURL:    ct.PhotoURL,
		Description: ct.Description,
		Phone:       ct.Phone,
		Email:       ct.Email,
	}
}

func toVacancyDTO(v *models.Vacancy) dtos.VacancyDTO {
	return dtos.VacancyDTO{
		VacancyID:   v.ID,
		Position:    v.Position,
		SalaryCents: v.SalaryCents,
		Description: v.Description,
		CreatedAt:   v.CreatedAt,
	}
}

func toReviewDTO(rv *models.Review) dtos.ReviewDTO {
	return dtos.ReviewDTO{
		ReviewID:  rv.ID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Text:      rv.Text,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}
