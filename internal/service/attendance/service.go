package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	committer snapshot.Committer,
	logger *slog.Logger,
) attendance.AttendanceService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		snapshot:             committer,
		logger:               logger,
	}
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, req attendance.ListRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.List(ctx, companyID, attendance.ListFilter{
		EmployeeID: req.EmployeeID,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	out := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.NewRecordResponse(r))
	}
	return out, nil
}

// existing returns the record of the day, or nil.
func (s *AttendanceServiceImpl) existing(ctx context.Context, companyID, employeeID, date string) (*attendance.Record, error) {
	rec, err := s.AttendanceRepository.GetByEmployeeDate(ctx, companyID, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load attendance record: %w", err)
	}
	return &rec, nil
}

// Toggle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Toggle(ctx context.Context, req attendance.ToggleRequest) (attendance.ToggleResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ToggleResponse{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}
	current, err := s.existing(ctx, companyID, emp.ID, req.Date)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	action, err := NextToggle(emp, req.Date, current)
	if err != nil {
		return attendance.ToggleResponse{}, err
	}

	// The write must land even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	var saved attendance.Record
	switch action.Kind {
	case ToggleCreate:
		saved, err = s.AttendanceRepository.Create(ctx, action.Record)
	case ToggleUpdate:
		saved, err = s.AttendanceRepository.Update(ctx, companyID, current.ID, action.Patch)
	case ToggleDelete:
		if err := s.AttendanceRepository.Delete(ctx, companyID, current.ID); err != nil {
			return attendance.ToggleResponse{}, fmt.Errorf("delete attendance record: %w", err)
		}
		s.snapshot.Commit(ctx, companyID, snapshot.RemoveAttendance(current.ID))
		return attendance.ToggleResponse{Action: string(ToggleDelete)}, nil
	}
	if err != nil {
		return attendance.ToggleResponse{}, fmt.Errorf("save attendance record: %w", err)
	}

	s.snapshot.Commit(ctx, companyID, snapshot.UpsertAttendance(saved))
	resp := attendance.NewRecordResponse(saved)
	return attendance.ToggleResponse{Action: string(action.Kind), Record: &resp}, nil
}

// SavePoint implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SavePoint(ctx context.Context, req attendance.SavePointRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	current, err := s.existing(ctx, companyID, emp.ID, req.Date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	next, err := BuildPointRecord(emp, req.Date, req.PointForm, current)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	ctx = context.WithoutCancel(ctx)

	var saved attendance.Record
	if current == nil {
		saved, err = s.AttendanceRepository.Create(ctx, next)
	} else {
		saved, err = s.AttendanceRepository.Update(ctx, companyID, current.ID, PointPatch(next))
	}
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("save attendance record: %w", err)
	}

	s.snapshot.Commit(ctx, companyID, snapshot.UpsertAttendance(saved))
	return attendance.NewRecordResponse(saved), nil
}

// EditValues implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EditValues(ctx context.Context, req attendance.EditValuesRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, companyID, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	next, err := EditRecordValues(rec, req.Value, req.Discount, req.Bonus, req.Note)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	ctx = context.WithoutCancel(ctx)
	saved, err := s.AttendanceRepository.Update(ctx, companyID, rec.ID, ValuesPatch(next))
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("update attendance values: %w", err)
	}

	s.logger.InfoContext(ctx, "attendance values edited",
		slog.String("company_id", companyID),
		slog.String("record_id", saved.ID),
		slog.String("net", saved.Net().StringFixed(2)))

	s.snapshot.Commit(ctx, companyID, snapshot.UpsertAttendance(saved))
	return attendance.NewRecordResponse(saved), nil
}
