package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/cache"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/sse"
)

// Sources are the repositories a snapshot is assembled from.
type Sources struct {
	Companies  company.CompanyRepository
	Employees  employee.EmployeeRepository
	Attendance attendance.AttendanceRepository
	Areas      production.AreaRepository
	Items      inventory.ItemRepository
	Movements  inventory.MovementRepository
	Entries    finance.EntryRepository
	Goals      goal.GoalRepository
}

type SnapshotServiceImpl struct {
	src    Sources
	cache  *cache.Versioned
	hub    *sse.Hub
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotService builds the service. A nil cache loads from the
// repositories on every call; a nil hub publishes nothing.
func NewSnapshotService(src Sources, c *cache.Versioned, hub *sse.Hub, logger *slog.Logger) *SnapshotServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotServiceImpl{
		src:    src,
		cache:  c,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

var _ snapshot.SnapshotService = (*SnapshotServiceImpl)(nil)

func (s *SnapshotServiceImpl) Current(ctx context.Context) (snapshot.Snapshot, error) {
	ident, err := jwt.FromContext(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return s.Load(ctx, companyID, ident.Global())
}

// Load serves the cached snapshot of companyID, assembling it on a miss.
// Concurrent misses for the same version share one assembly.
func (s *SnapshotServiceImpl) Load(ctx context.Context, companyID string, global bool) (snapshot.Snapshot, error) {
	key, err := s.cache.Key(ctx, companyID)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot cache unavailable", slog.String("company_id", companyID), slog.Any("error", err))
		key = "nocache:" + companyID
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var snap snapshot.Snapshot
		loader := func(ctx context.Context) (interface{}, error) {
			return s.assemble(ctx, companyID)
		}
		if err := s.cache.FetchJSON(ctx, key, &snap, loader); err != nil {
			// A broken cache must not take reads down with it.
			if fresh, lerr := s.assemble(ctx, companyID); lerr == nil {
				s.logger.WarnContext(ctx, "snapshot cache read failed", slog.String("company_id", companyID), slog.Any("error", err))
				return fresh, nil
			}
			return nil, err
		}
		return snap, nil
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	snap := v.(snapshot.Snapshot)

	if global {
		companies, err := s.src.Companies.List(ctx)
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("list companies: %w", err)
		}
		snap.Companies = companies
	}
	return snap, nil
}

// assemble fetches every collection of companyID in parallel.
func (s *SnapshotServiceImpl) assemble(ctx context.Context, companyID string) (snapshot.Snapshot, error) {
	snap := snapshot.Snapshot{CompanyID: companyID, FetchedAt: s.now().UTC()}
	if ver, err := s.cache.Version(ctx, companyID); err == nil {
		snap.Version = ver
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Company, err = s.src.Companies.GetByID(ctx, companyID)
		return wrap("company", err)
	})
	g.Go(func() (err error) {
		snap.Employees, err = s.src.Employees.List(ctx, companyID)
		return wrap("employees", err)
	})
	g.Go(func() (err error) {
		snap.Attendance, err = s.src.Attendance.List(ctx, companyID, attendance.ListFilter{})
		return wrap("attendance", err)
	})
	g.Go(func() (err error) {
		snap.Areas, err = s.src.Areas.List(ctx, companyID)
		return wrap("areas", err)
	})
	g.Go(func() (err error) {
		snap.Items, err = s.src.Items.List(ctx, companyID)
		return wrap("items", err)
	})
	g.Go(func() (err error) {
		snap.Movements, err = s.src.Movements.List(ctx, companyID)
		return wrap("movements", err)
	})
	g.Go(func() (err error) {
		snap.CashIn, err = s.src.Entries.List(ctx, companyID, finance.DirectionIn)
		return wrap("cash in", err)
	})
	g.Go(func() (err error) {
		snap.CashOut, err = s.src.Entries.List(ctx, companyID, finance.DirectionOut)
		return wrap("cash out", err)
	})
	g.Go(func() (err error) {
		snap.Goals, err = s.src.Goals.List(ctx, companyID)
		return wrap("goals", err)
	})
	if err := g.Wait(); err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

func wrap(collection string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}
	return nil
}

// Commit stores reduce(current) as the next version and tells subscribers of
// the company to refetch. When no cached document exists, or another commit
// raced this one, the cache is invalidated instead and the next read
// reassembles from the repositories.
func (s *SnapshotServiceImpl) Commit(ctx context.Context, companyID string, reduce snapshot.Reducer) {
	ver, err := s.commit(ctx, companyID, reduce)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot commit fell back to invalidation",
			slog.String("company_id", companyID), slog.Any("error", err))
		if ver, err = s.cache.Bump(ctx, companyID); err != nil {
			s.logger.ErrorContext(ctx, "snapshot invalidation failed",
				slog.String("company_id", companyID), slog.Any("error", err))
		}
	}
	if s.hub != nil {
		s.hub.Publish(companyID, sse.Event{
			Event: sse.SnapshotChanged,
			Data:  map[string]interface{}{"company_id": companyID, "version": ver},
		})
	}
}

func (s *SnapshotServiceImpl) commit(ctx context.Context, companyID string, reduce snapshot.Reducer) (int64, error) {
	prev, err := s.cache.Version(ctx, companyID)
	if err != nil {
		return 0, err
	}
	key, err := s.cache.Key(ctx, companyID)
	if err != nil {
		return 0, err
	}
	var current snapshot.Snapshot
	found, err := s.cache.LookupJSON(ctx, key, &current)
	if err != nil {
		return 0, err
	}
	if !found {
		return s.cache.Bump(ctx, companyID)
	}

	next := reduce(current)
	next.Version = prev + 1
	next.FetchedAt = s.now().UTC()
	ver, err := s.cache.Replace(ctx, companyID, next)
	if err != nil {
		return 0, err
	}
	if ver != prev+1 {
		return ver, fmt.Errorf("concurrent commit: expected version %d, got %d", prev+1, ver)
	}
	return ver, nil
}
