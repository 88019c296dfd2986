package controllers

import (
	"net/http"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/app"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(a *app.App) *HealthController {
	return &HealthController{app: a}
}

// GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.DB.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusServiceUnavailable, utils.ErrCodeInternal,
			"Database unreachable", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "ok"})
}
