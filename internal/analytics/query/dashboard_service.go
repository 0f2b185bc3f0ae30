package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	"github.com/curbsidehq/curbside-backend/pkg/bigquery"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

const (
	truckClause = "truck_id = @truckID"

	timeSeriesOrdersSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(DISTINCT order_id) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	timeSeriesRevenueSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  SUM(COALESCE(total_cents, 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	timeSeriesDiscountsSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  SUM(COALESCE(offer_discount_cents, 0) + COALESCE(promo_discount_cents, 0) + COALESCE(loyalty_discount_cents, 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	timeSeriesCancellationsSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(DISTINCT order_id) AS value
FROM %s
WHERE %s
  AND event_type = 'order_canceled'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	topOffersSQL = `
SELECT offer_id AS label, SUM(COALESCE(discount_cents, 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'offer_redeemed'
  AND occurred_at BETWEEN @start AND @end
GROUP BY offer_id
ORDER BY value DESC
LIMIT 5
`

	aovSQL = `
SELECT SAFE_DIVIDE(SUM(COALESCE(total_cents, 0)), NULLIF(COUNT(DISTINCT order_id), 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
`

	loyaltyTotalsSQL = `
SELECT
  SUM(IF(event_type = 'loyalty_points_earned', points, 0)) AS earned,
  SUM(IF(event_type = 'loyalty_points_spent', points, 0)) AS spent
FROM %s
WHERE %s
  AND occurred_at BETWEEN @start AND @end
`

	newReturningSQL = `
WITH prior_customers AS (
  SELECT DISTINCT customer_email
  FROM %s
  WHERE %s
    AND event_type = 'order_created'
    AND occurred_at < @start
    AND customer_email IS NOT NULL
),
current_customers AS (
  SELECT DISTINCT customer_email,
    CASE
      WHEN customer_email IN (SELECT customer_email FROM prior_customers) THEN 'returning'
      ELSE 'new'
    END AS category
  FROM %s
  WHERE %s
    AND event_type = 'order_created'
    AND occurred_at BETWEEN @start AND @end
    AND customer_email IS NOT NULL
)
SELECT
  COUNTIF(category = 'new') AS new_customers,
  COUNTIF(category = 'returning') AS returning_customers
FROM current_customers
`
)

// DashboardService provides merchant dashboard data from BigQuery event tables.
type DashboardService interface {
	Query(ctx context.Context, req types.DashboardQueryRequest) (*types.DashboardQueryResponse, error)
}

// Tables names the BigQuery tables the dashboard reads from.
type Tables struct {
	OrderEvents   string
	LoyaltyEvents string
	OfferEvents   string
}

type dashboardService struct {
	client       *bigquery.Client
	orderTable   string
	loyaltyTable string
	offerTable   string
}

// NewDashboardService builds a service backed by BigQuery.
func NewDashboardService(client *bigquery.Client, project, dataset string, tables Tables) (DashboardService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || dataset == "" {
		return nil, fmt.Errorf("project and dataset are required")
	}
	if tables.OrderEvents == "" || tables.LoyaltyEvents == "" || tables.OfferEvents == "" {
		return nil, fmt.Errorf("order, loyalty, and offer tables are required")
	}
	ref := func(table string) string {
		return fmt.Sprintf("`%s.%s.%s`", project, dataset, table)
	}
	return &dashboardService{
		client:       client,
		orderTable:   ref(tables.OrderEvents),
		loyaltyTable: ref(tables.LoyaltyEvents),
		offerTable:   ref(tables.OfferEvents),
	}, nil
}

func (s *dashboardService) Query(ctx context.Context, req types.DashboardQueryRequest) (*types.DashboardQueryResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	params := s.baseParams(req)

	orders, err := s.querySeries(ctx, fmt.Sprintf(timeSeriesOrdersSQL, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}
	revenue, err := s.querySeries(ctx, fmt.Sprintf(timeSeriesRevenueSQL, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}
	discounts, err := s.querySeries(ctx, fmt.Sprintf(timeSeriesDiscountsSQL, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}
	cancellations, err := s.querySeries(ctx, fmt.Sprintf(timeSeriesCancellationsSQL, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}

	topOffers, err := s.queryTopLabels(ctx, fmt.Sprintf(topOffersSQL, s.offerTable, truckClause), params)
	if err != nil {
		return nil, err
	}

	aov, err := s.queryAOV(ctx, fmt.Sprintf(aovSQL, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}

	earned, spent, err := s.queryLoyaltyTotals(ctx, fmt.Sprintf(loyaltyTotalsSQL, s.loyaltyTable, truckClause), params)
	if err != nil {
		return nil, err
	}

	newCustomers, returningCustomers, err := s.queryNewReturning(ctx, fmt.Sprintf(newReturningSQL, s.orderTable, truckClause, s.orderTable, truckClause), params)
	if err != nil {
		return nil, err
	}

	return &types.DashboardQueryResponse{
		OrdersSeries:        orders,
		RevenueSeries:       revenue,
		DiscountsSeries:     discounts,
		CancellationsSeries: cancellations,
		TopOffers:           topOffers,
		AOV:                 aov,
		LoyaltyPointsEarned: earned,
		LoyaltyPointsSpent:  spent,
		NewCustomers:        newCustomers,
		ReturningCustomers:  returningCustomers,
	}, nil
}

func validateRequest(req types.DashboardQueryRequest) error {
	if req.TruckID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "truck id required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End.Before(req.Start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}
	return nil
}

func (s *dashboardService) baseParams(req types.DashboardQueryRequest) []cloudbigquery.QueryParameter {
	return []cloudbigquery.QueryParameter{
		{Name: "truckID", Value: req.TruckID},
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}
}

func (s *dashboardService) querySeries(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.TimeSeriesPoint, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}

	var points []types.TimeSeriesPoint
	for {
		var row struct {
			Day   string `bigquery:"day"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading series row: %w", err)
		}
		points = append(points, types.TimeSeriesPoint{Date: row.Day, Value: row.Value})
	}
	return points, nil
}

func (s *dashboardService) queryTopLabels(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.LabelValue, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query top labels: %w", err)
	}

	var result []types.LabelValue
	for {
		var row struct {
			Label string `bigquery:"label"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading top label row: %w", err)
		}
		result = append(result, types.LabelValue{Label: row.Label, Value: row.Value})
	}
	return result, nil
}

func (s *dashboardService) queryAOV(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (float64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("query aov: %w", err)
	}
	var row struct {
		Value cloudbigquery.NullFloat64 `bigquery:"value"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, nil
		}
		return 0, fmt.Errorf("reading aov row: %w", err)
	}
	if !row.Value.Valid {
		return 0, nil
	}
	return row.Value.Float64, nil
}

func (s *dashboardService) queryLoyaltyTotals(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, 0, fmt.Errorf("query loyalty totals: %w", err)
	}
	var row struct {
		Earned cloudbigquery.NullInt64 `bigquery:"earned"`
		Spent  cloudbigquery.NullInt64 `bigquery:"spent"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("reading loyalty totals row: %w", err)
	}
	return row.Earned.Int64, row.Spent.Int64, nil
}

func (s *dashboardService) queryNewReturning(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, 0, fmt.Errorf("query new vs returning: %w", err)
	}
	var row struct {
		NewCustomers       int64 `bigquery:"new_customers"`
		ReturningCustomers int64 `bigquery:"returning_customers"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("reading new vs returning row: %w", err)
	}
	return row.NewCustomers, row.ReturningCustomers, nil
}
