package services

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// SaleStatistics aggregates frozen sale costs and the fees of the service
// tiers behind them. Values are in cents; Mode lists every modal value.
type SaleStatistics struct {
	Count           int     `json:"count"`
	MeanCostCents   float64 `json:"mean_cost_cents"`
	MedianCostCents float64 `json:"median_cost_cents"`
	ModeCostCents   []int64 `json:"mode_cost_cents"`
	TotalCostCents  int64   `json:"total_cost_cents"`

	MeanServiceFeeCents   float64 `json:"mean_service_fee_cents"`
	MedianServiceFeeCents float64 `json:"median_service_fee_cents"`
}

type ClientAgeStatistics struct {
	Count     int     `json:"count"`
	MeanAge   float64 `json:"mean_age"`
	MedianAge float64 `json:"median_age"`
}

type StatisticsService struct {
	saleRepo   repositories.SaleRepository
	clientRepo repositories.ClientRepository
}

func NewStatisticsService(saleRepo repositories.SaleRepository, clientRepo repositories.ClientRepository) *StatisticsService {
	return &StatisticsService{saleRepo: saleRepo, clientRepo: clientRepo}
}

// SaleStats computes mean/median/mode over all closed sales. With no sales
// yet, an all-zero report is returned rather than an error.
func (s *StatisticsService) SaleStats(ctx context.Context) (*SaleStatistics, error) {
	rows, err := s.saleRepo.ListCostRows(ctx)
	if err != nil {
		return nil, err
	}

	out := &SaleStatistics{Count: len(rows)}
	if len(rows) == 0 {
		return out, nil
	}

	costs := make(stats.Float64Data, 0, len(rows))
	fees := make(stats.Float64Data, 0, len(rows))
	for _, row := range rows {
		costs = append(costs, float64(row.CostCents))
		out.TotalCostCents += row.CostCents
		if row.ServiceFeeCents != nil {
			fees = append(fees, float64(*row.ServiceFeeCents))
		}
	}

	if out.MeanCostCents, err = stats.Mean(costs); err != nil {
		return nil, err
	}
	if out.MedianCostCents, err = stats.Median(costs); err != nil {
		return nil, err
	}
	modes, err := stats.Mode(costs)
	if err != nil {
		return nil, err
	}
	for _, m := range modes {
		out.ModeCostCents = append(out.ModeCostCents, int64(m))
	}

	if len(fees) > 0 {
		if out.MeanServiceFeeCents, err = stats.Mean(fees); err != nil {
			return nil, err
		}
		if out.MedianServiceFeeCents, err = stats.Median(fees); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ClientAgeStats reports the mean and median age of registered clients.
func (s *StatisticsService) ClientAgeStats(ctx context.Context) (*ClientAgeStatistics, error) {
	birthDates, err := s.clientRepo.ListBirthDates(ctx)
	if err != nil {
		return nil, err
	}

	out := &ClientAgeStatistics{Count: len(birthDates)}
	if len(birthDates) == 0 {
		return out, nil
	}

	now := time.Now()
	ages := make(stats.Float64Data, 0, len(birthDates))
	for _, bd := range birthDates {
		ages = append(ages, float64(utils.YearsSince(bd, now)))
	}

	if out.MeanAge, err = stats.Mean(ages); err != nil {
		return nil, err
	}
	if out.MedianAge, err = stats.Median(ages); err != nil {
		return nil, err
	}
	return out, nil
}
