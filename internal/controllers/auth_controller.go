package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/middleware"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type AuthController struct {
	authService *services.AuthService
	validate    *validator.Validate
}

func NewAuthController(as *services.AuthService) *AuthController {
	return &AuthController{
		authService: as,
		validate:    validator.New(),
	}
}

// POST /api/v1/auth/register
func (c *AuthController) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
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

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"birth_date must be YYYY-MM-DD", nil, err,
		)
		return
	}

	user, err := c.authService.Register(
		r.Context(),
		req.Email, req.Username, req.Password, req.PhoneNumber,
		birthDate, models.UserRoleType(req.Role),
	)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmailExists):
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeEmailExists,
				"An account with this email already exists", nil,
			)
		case errors.Is(err, utils.ErrUnderage):
			utils.RespondErrorWithCode(
				w, http.StatusUnprocessableEntity, utils.ErrCodeValidation,
				"You must be at least 18 years old to register", nil,
			)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusInternalServerError, utils.ErrCodeInternal,
				"Registration failed", nil, err,
			)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.RegisterResponse{User: toUserDTO(user)})
}

// POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
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

	token, user, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials,
				"Invalid email or password", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Login failed", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		AccessToken: token,
		User:        toUserDTO(user),
	})
}

// GET /api/v1/me
func (c *AuthController) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.authedUserID(w, r)
	if !ok {
		return
	}
	user, err := c.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to load profile", nil, err,
		)
		return
	}
	if user == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Account not found", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toUserDTO(user))
}

// PUT /api/v1/me
func (c *AuthController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.authedUserID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateProfileRequest
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

	user, err := c.authService.UpdateProfile(r.Context(), userID, req.Username, utils.Val(req.PhoneNumber))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to update profile", nil, err,
		)
		return
	}
	if user == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			"Account not found", nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toUserDTO(user))
}

// PUT /api/v1/me/password
func (c *AuthController) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.authedUserID(w, r)
	if !ok {
		return
	}
	var req dtos.ChangePasswordRequest
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

	if err := c.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials,
				"Current password is incorrect", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to change password", nil, err,
		)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *AuthController) authedUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil,
		)
		return "", false
	}
	return userID, true
}

func toUserDTO(u *models.User) dtos.UserDTO {
	return dtos.UserDTO{
		UserID:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
		BirthDate:   u.BirthDate,
	}
}
