package production

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/production"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/service/dashboard"
)

type ProductionServiceImpl struct {
	production.AreaRepository
	company.CompanyRepository
	employee.EmployeeRepository
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewProductionService(
	areaRepo production.AreaRepository,
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	committer snapshot.Committer,
	logger *slog.Logger,
) production.ProductionService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductionServiceImpl{
		AreaRepository:     areaRepo,
		CompanyRepository:  companyRepo,
		EmployeeRepository: employeeRepo,
		snapshot:           committer,
		logger:             logger,
	}
}

func (s *ProductionServiceImpl) ListAreas(ctx context.Context, c filter.Criteria) ([]production.Area, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.AreaRepository.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return filter.Apply(areas, c, production.AreaFields), nil
}

func (s *ProductionServiceImpl) GetArea(ctx context.Context, id string) (production.Area, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return production.Area{}, err
	}
	return s.AreaRepository.GetByID(ctx, companyID, id)
}

func (s *ProductionServiceImpl) checkResponsible(ctx context.Context, companyID string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, companyID, *id); err != nil {
		return production.ErrResponsibleNotFound
	}
	return nil
}

func (s *ProductionServiceImpl) CreateArea(ctx context.Context, req production.CreateAreaRequest) (production.Area, error) {
	if err := req.Validate(); err != nil {
		return production.Area{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return production.Area{}, err
	}
	if err := s.checkResponsible(ctx, companyID, req.ResponsibleID); err != nil {
		return production.Area{}, err
	}

	ctx = context.WithoutCancel(ctx)
	area, err := s.AreaRepository.Create(ctx, production.Area{
		CompanyID:      companyID,
		Name:           req.Name,
		Neighborhood:   req.Neighborhood,
		ResponsibleID:  req.ResponsibleID,
		Status:         production.AreaExecuting,
		StartDate:      req.StartDate,
		StartReference: req.StartReference,
		Notes:          req.Notes,
	})
	if err != nil {
		return production.Area{}, fmt.Errorf("create area: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertArea(area))
	return area, nil
}

func (s *ProductionServiceImpl) UpdateArea(ctx context.Context, req production.UpdateAreaRequest) (production.Area, error) {
	if err := req.Validate(); err != nil {
		return production.Area{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return production.Area{}, err
	}
	if err := s.checkResponsible(ctx, companyID, req.ResponsibleID); err != nil {
		return production.Area{}, err
	}

	ctx = context.WithoutCancel(ctx)
	area, err := s.AreaRepository.Update(ctx, companyID, req)
	if err != nil {
		return production.Area{}, fmt.Errorf("update area: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertArea(area))
	return area, nil
}

// FinishArea closes a work order. It cannot be reopened.
func (s *ProductionServiceImpl) FinishArea(ctx context.Context, req production.FinishAreaRequest) (production.Area, error) {
	if err := req.Validate(); err != nil {
		return production.Area{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return production.Area{}, err
	}
	current, err := s.AreaRepository.GetByID(ctx, companyID, req.ID)
	if err != nil {
		return production.Area{}, err
	}
	if current.IsFinished() {
		return production.Area{}, production.ErrAreaFinished
	}

	ctx = context.WithoutCancel(ctx)
	area, err := s.AreaRepository.Finish(ctx, companyID, req.ID, req.EndDate, req.EndReference)
	if err != nil {
		return production.Area{}, fmt.Errorf("finish area: %w", err)
	}
	s.logger.InfoContext(ctx, "area finished",
		slog.String("company_id", companyID),
		slog.String("area_id", area.ID))
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertArea(area))
	return area, nil
}

// AddService prices the line with the company rate in force now.
func (s *ProductionServiceImpl) AddService(ctx context.Context, req production.AddServiceRequest) (production.ServiceLine, error) {
	if err := req.Validate(); err != nil {
		return production.ServiceLine{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return production.ServiceLine{}, err
	}

	area, err := s.AreaRepository.GetByID(ctx, companyID, req.AreaID)
	if err != nil {
		return production.ServiceLine{}, err
	}
	if area.IsFinished() {
		return production.ServiceLine{}, production.ErrAreaFinished
	}
	comp, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return production.ServiceLine{}, err
	}
	rate, ok := production.FindRate(comp.ServiceRates, req.ServiceType)
	if !ok {
		return production.ServiceLine{}, production.ErrUnknownServiceType
	}

	ctx = context.WithoutCancel(ctx)
	line, err := s.AreaRepository.AddService(ctx, production.NewServiceLine(companyID, area.ID, req.Date, req.Quantity, rate))
	if err != nil {
		return production.ServiceLine{}, fmt.Errorf("add service line: %w", err)
	}

	s.snapshot.Commit(ctx, companyID, snapshot.AddServiceLine(line))
	return line, nil
}

func (s *ProductionServiceImpl) RemoveService(ctx context.Context, areaID, serviceID string) error {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return err
	}
	area, err := s.AreaRepository.GetByID(ctx, companyID, areaID)
	if err != nil {
		return err
	}
	if area.IsFinished() {
		return production.ErrAreaFinished
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.AreaRepository.DeleteService(ctx, companyID, areaID, serviceID); err != nil {
		return err
	}

	s.snapshot.Commit(ctx, companyID, snapshot.RemoveServiceLine(areaID, serviceID))
	return nil
}

// Report totals the areas matching c.
func (s *ProductionServiceImpl) Report(ctx context.Context, c filter.Criteria) (production.Report, error) {
	areas, err := s.ListAreas(ctx, c)
	if err != nil {
		return production.Report{}, err
	}

	out := production.Report{
		Areas:         areas,
		ByServiceType: dashboard.ProductionTotalsByServiceType(areas),
		TotalValue:    decimal.Zero,
	}
	var qty decimal.Decimal
	for _, a := range areas {
		for _, line := range a.Services {
			qty = qty.Add(decimal.NewFromFloat(line.Quantity))
			out.TotalValue = out.TotalValue.Add(line.TotalValue)
		}
	}
	out.TotalQuantity = qty.InexactFloat64()
	return out, nil
}
