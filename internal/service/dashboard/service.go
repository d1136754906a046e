package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
)

type DashboardServiceImpl struct {
	snapshots snapshot.SnapshotService
	logger    *slog.Logger
	now       func() time.Time
}

func NewDashboardService(snapshots snapshot.SnapshotService, logger *slog.Logger) dashboard.DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardServiceImpl{snapshots: snapshots, logger: logger, now: time.Now}
}

// Overview implements dashboard.DashboardService. Sections run concurrently
// over the same snapshot; a section that fails is reported in Warnings and
// does not affect the others.
func (s *DashboardServiceImpl) Overview(ctx context.Context, req dashboard.OverviewRequest) (dashboard.Overview, error) {
	if err := req.Validate(); err != nil {
		return dashboard.Overview{}, err
	}
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return dashboard.Overview{}, err
	}

	end := req.End
	if end == "" {
		end = s.now().Format(yearMonth)
	}
	months := req.Months
	if months == 0 {
		months = dashboard.DefaultRangeMonths
	}

	var (
		out dashboard.Overview
		mu  sync.Mutex
		g   errgroup.Group
	)
	section := func(name string, fn func() error) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				if err != nil {
					s.logger.WarnContext(ctx, "dashboard section failed",
						slog.String("section", name),
						slog.String("company_id", snap.CompanyID),
						slog.String("error", err.Error()))
					mu.Lock()
					out.Warnings = append(out.Warnings, dashboard.Warning{Section: name, Message: err.Error()})
					mu.Unlock()
				}
			}()
			return fn()
		})
	}

	section("series", func() error {
		buckets, err := BuildMonthlySeries(end, months)
		if err != nil {
			return err
		}
		series := Series(snap, buckets)
		mu.Lock()
		out.Series = series
		mu.Unlock()
		return nil
	})
	section("summary", func() error {
		sum := Summarize(snap, s.now())
		mu.Lock()
		out.Summary = &sum
		mu.Unlock()
		return nil
	})
	section("production_by_type", func() error {
		totals := ProductionTotalsByServiceType(snap.Areas)
		mu.Lock()
		out.ProductionByType = totals
		mu.Unlock()
		return nil
	})

	// Section errors are already in Warnings.
	_ = g.Wait()

	if out.Series == nil {
		out.Series = []dashboard.MonthMetrics{}
	}
	return out, nil
}

func (s *DashboardServiceImpl) Summary(ctx context.Context) (dashboard.Summary, error) {
	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return dashboard.Summary{}, err
	}
	return Summarize(snap, s.now()), nil
}
