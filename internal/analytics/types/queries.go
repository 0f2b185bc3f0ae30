package types

import "time"

// DashboardQueryRequest carries the input parameters for truck dashboard queries.
type DashboardQueryRequest struct {
	TruckID string
	Start   time.Time
	End     time.Time
}

// TimeSeriesPoint describes a single date/value pair returned by the query service.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// LabelValue represents a top-N entry such as an offer or menu item.
type LabelValue struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// DashboardQueryResponse wraps the per-truck KPIs for the merchant dashboard.
type DashboardQueryResponse struct {
	OrdersSeries        []TimeSeriesPoint `json:"orders"`
	RevenueSeries       []TimeSeriesPoint `json:"revenue"`
	DiscountsSeries     []TimeSeriesPoint `json:"discounts"`
	CancellationsSeries []TimeSeriesPoint `json:"cancellations"`
	TopOffers           []LabelValue      `json:"top_offers"`
	AOV                 float64           `json:"aov"`
	LoyaltyPointsEarned int64             `json:"loyalty_points_earned"`
	LoyaltyPointsSpent  int64             `json:"loyalty_points_spent"`
	NewCustomers        int64             `json:"new_customers"`
	ReturningCustomers  int64             `json:"returning_customers"`
}
