package dashboard

import "context"

type DashboardService interface {
	// Overview computes the monthly series, the KPI summary and production
	// per service type over the caller's company snapshot.
	Overview(ctx context.Context, req OverviewRequest) (Overview, error)

	Summary(ctx context.Context) (Summary, error)
}
