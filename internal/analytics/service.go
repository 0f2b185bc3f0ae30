package analytics

import (
	"context"
	"fmt"

	"github.com/curbsidehq/curbside-backend/internal/analytics/query"
	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	"github.com/curbsidehq/curbside-backend/pkg/bigquery"
)

// Service provides merchant dashboard reports based on domain events.
type Service interface {
	// Query returns per-truck KPIs for the provided request.
	Query(ctx context.Context, req types.DashboardQueryRequest) (*types.DashboardQueryResponse, error)
}

type service struct {
	dashboard query.DashboardService
}

// NewService builds an analytics service backed by BigQuery.
func NewService(client *bigquery.Client, project, dataset string, tables query.Tables) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}

	dashboard, err := query.NewDashboardService(client, project, dataset, tables)
	if err != nil {
		return nil, err
	}

	return &service{dashboard: dashboard}, nil
}

func (s *service) Query(ctx context.Context, req types.DashboardQueryRequest) (*types.DashboardQueryResponse, error) {
	return s.dashboard.Query(ctx, req)
}
