package controllers

import (
	"net/http"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/dtos"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/services"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

type StatsController struct {
	statsService *services.StatisticsService
}

func NewStatsController(ss *services.StatisticsService) *StatsController {
	return &StatsController{statsService: ss}
}

// GET /api/v1/admin/stats/sales
func (c *StatsController) SaleStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := c.statsService.SaleStats(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to compute sale statistics", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SaleStatsResponse{
		Count:                 st.Count,
		MeanCostCents:         st.MeanCostCents,
		MedianCostCents:       st.MedianCostCents,
		ModeCostCents:         st.ModeCostCents,
		TotalCostCents:        st.TotalCostCents,
		MeanServiceFeeCents:   st.MeanServiceFeeCents,
		MedianServiceFeeCents: st.MedianServiceFeeCents,
	})
}

// GET /api/v1/admin/stats/client-ages
func (c *StatsController) ClientAgeStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := c.statsService.ClientAgeStats(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to compute client age statistics", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ClientAgeStatsResponse{
		Count:     st.Count,
		MeanAge:   st.MeanAge,
		MedianAge: st.MedianAge,
	})
}
