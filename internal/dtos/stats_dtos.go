package dtos

// SaleStatsResponse and ClientAgeStatsResponse mirror the service-layer
// aggregates one-to-one; the services already shape them for JSON.

type SaleStatsResponse struct {
	Count           int     `json:"count"`
	MeanCostCents   float64 `json:"mean_cost_cents"`
	MedianCostCents float64 `json:"median_cost_cents"`
	ModeCostCents   []int64 `json:"mode_cost_cents"`
	TotalCostCents  int64   `json:"total_cost_cents"`

	MeanServiceFeeCents   float64 `json:"mean_service_fee_cents"`
	MedianServiceFeeCents float64 `json:"median_service_fee_cents"`
}

type ClientAgeStatsResponse struct {
	Count     int     `json:"count"`
	MeanAge   float64 `json:"mean_age"`
	MedianAge float64 `json:"median_age"`
}
