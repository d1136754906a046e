package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/employee"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/payroll"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/locale"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/lock"
)

const DefaultCategory = "Folha de Pagamento"

type PayrollServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	finance.EntryRepository
	// tx is nil when the store cannot run transactions; settlement then
	// uses the sequential fallback.
	tx       database.Transactor
	locker   *lock.Locker
	snapshot snapshot.Committer
	logger   *slog.Logger
	now      func() time.Time
}

func NewPayrollService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	entryRepo finance.EntryRepository,
	tx database.Transactor,
	locker *lock.Locker,
	committer snapshot.Committer,
	logger *slog.Logger,
) payroll.PayrollService {
	if locker == nil {
		locker = lock.NewLocker(nil, 0)
	}
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		EntryRepository:      entryRepo,
		tx:                   tx,
		locker:               locker,
		snapshot:             committer,
		logger:               logger,
		now:                  time.Now,
	}
}

// Preview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.PreviewRequest) (payroll.Preview, error) {
	if err := req.Validate(); err != nil {
		return payroll.Preview{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return payroll.Preview{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return payroll.Preview{}, err
	}
	records, err := s.pending(ctx, companyID, emp.ID, req.From, req.To)
	if err != nil {
		return payroll.Preview{}, err
	}

	return payroll.Preview{
		EmployeeID:    emp.ID,
		From:          req.From,
		To:            req.To,
		Records:       records,
		Settlement:    ComputeSettlement(records),
		Informational: emp.IsCLT(),
	}, nil
}

func (s *PayrollServiceImpl) pending(ctx context.Context, companyID, employeeID, from, to string) ([]attendance.Record, error) {
	records, err := s.AttendanceRepository.List(ctx, companyID, attendance.ListFilter{
		EmployeeID:  employeeID,
		From:        from,
		To:          to,
		PendingOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list pending attendance: %w", err)
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return records, nil
}

// SettleAndPost implements payroll.PayrollService.
func (s *PayrollServiceImpl) SettleAndPost(ctx context.Context, req payroll.SettleRequest) (payroll.Result, error) {
	if err := req.Validate(); err != nil {
		return payroll.Result{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return payroll.Result{}, err
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return payroll.Result{}, err
	}
	if emp.IsCLT() {
		return payroll.Result{}, payroll.ErrInformationalSettlement
	}

	lease, err := s.locker.Acquire(ctx, lock.SettlementKey(companyID, emp.ID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return payroll.Result{}, payroll.ErrSettlementInProgress
		}
		return payroll.Result{}, err
	}
	// Once started, a settlement runs to the end.
	ctx = context.WithoutCancel(ctx)
	defer func() {
		if err := lease.Release(ctx); err != nil {
			s.logger.WarnContext(ctx, "release settlement lock", slog.String("error", err.Error()))
		}
	}()

	candidates, err := s.pending(ctx, companyID, emp.ID, req.From, req.To)
	if err != nil {
		return payroll.Result{}, err
	}
	candidates = selectRecords(candidates, req.RecordIDs)
	if len(candidates) == 0 {
		return payroll.Result{}, payroll.ErrNothingToSettle
	}

	entry := s.cashOut(companyID, emp, req)

	var result payroll.Result
	if s.tx != nil {
		result, err = s.settleInTx(ctx, companyID, emp, candidates, entry)
	} else {
		result, err = s.settleSequential(ctx, companyID, emp, candidates, entry)
	}
	if err != nil {
		return payroll.Result{}, err
	}

	s.logger.InfoContext(ctx, "settlement posted",
		slog.String("company_id", companyID),
		slog.String("employee_id", emp.ID),
		slog.String("cash_out_id", result.CashOut.ID),
		slog.Int("records", len(result.Records)),
		slog.String("total", result.Settlement.TotalToPay.StringFixed(2)))

	s.snapshot.Commit(ctx, companyID, snapshot.Chain(
		snapshot.UpsertAttendance(result.Records...),
		snapshot.AddCashEntry(result.CashOut),
	))
	return result, nil
}

// settleInTx claims the records and posts the cash-out atomically. Totals
// come from the rows this call actually claimed, so an overlapping call
// cannot pay the same record twice.
func (s *PayrollServiceImpl) settleInTx(ctx context.Context, companyID string, emp employee.Employee, candidates []attendance.Record, entry finance.Entry) (payroll.Result, error) {
	var result payroll.Result
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		claimed, err := s.AttendanceRepository.ClaimForPayment(ctx, companyID, ids(candidates))
		if err != nil {
			return fmt.Errorf("claim attendance records: %w", err)
		}
		if len(claimed) == 0 {
			return payroll.ErrNothingToSettle
		}

		settlement := ComputeSettlement(pendingCopies(claimed))
		if !settlement.TotalToPay.IsPositive() {
			return payroll.ErrNonPositiveSettlement
		}

		entry.Value = settlement.TotalToPay
		entry.Description = describeCashOut(len(claimed), emp)
		posted, err := s.EntryRepository.Create(ctx, entry)
		if err != nil {
			return fmt.Errorf("post cash-out: %w", err)
		}
		result = payroll.Result{CashOut: posted, Records: claimed, Settlement: settlement}
		return nil
	})
	return result, err
}

// settleSequential is the fallback for stores without transactions: the
// cash-out goes first, then each record is claimed on its own. Records that
// could not be claimed are reported in a SettlementIntegrityError.
func (s *PayrollServiceImpl) settleSequential(ctx context.Context, companyID string, emp employee.Employee, candidates []attendance.Record, entry finance.Entry) (payroll.Result, error) {
	settlement := ComputeSettlement(candidates)
	if !settlement.TotalToPay.IsPositive() {
		return payroll.Result{}, payroll.ErrNonPositiveSettlement
	}

	entry.Value = settlement.TotalToPay
	entry.Description = describeCashOut(len(candidates), emp)
	posted, err := s.EntryRepository.Create(ctx, entry)
	if err != nil {
		return payroll.Result{}, fmt.Errorf("post cash-out: %w", err)
	}

	var (
		claimed []attendance.Record
		failed  []string
		cause   error
	)
	for _, rec := range candidates {
		got, err := s.AttendanceRepository.ClaimForPayment(ctx, companyID, []string{rec.ID})
		switch {
		case err != nil:
			failed = append(failed, rec.ID)
			if cause == nil {
				cause = err
			}
		case len(got) == 0:
			failed = append(failed, rec.ID)
			if cause == nil {
				cause = fmt.Errorf("record %s was settled elsewhere", rec.ID)
			}
		default:
			claimed = append(claimed, got...)
		}
	}

	if len(failed) > 0 {
		integrity := &payroll.SettlementIntegrityError{CashOutID: posted.ID, FailedRecordIDs: failed, Cause: cause}
		s.logger.ErrorContext(ctx, "settlement integrity failure",
			slog.String("company_id", companyID),
			slog.String("cash_out_id", posted.ID),
			slog.Any("failed_record_ids", failed),
			slog.String("error", cause.Error()))
		// Publish what did happen so clients stop offering those records.
		s.snapshot.Commit(ctx, companyID, snapshot.Chain(
			snapshot.UpsertAttendance(claimed...),
			snapshot.AddCashEntry(posted),
		))
		return payroll.Result{}, integrity
	}
	return payroll.Result{CashOut: posted, Records: claimed, Settlement: settlement}, nil
}

func (s *PayrollServiceImpl) cashOut(companyID string, emp employee.Employee, req payroll.SettleRequest) finance.Entry {
	date := req.PaymentDate
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	category := req.Category
	if category == "" {
		category = DefaultCategory
	}
	reference := req.Reference
	if reference == "" {
		reference = fmt.Sprintf("Acerto %s %s a %s", emp.Name, locale.Date(req.From), locale.Date(req.To))
	}
	return finance.Entry{
		CompanyID: companyID,
		Direction: finance.DirectionOut,
		Date:      date,
		Category:  category,
		Reference: reference,
	}
}

func describeCashOut(days int, emp employee.Employee) string {
	return fmt.Sprintf("%d dia(s) de %s", days, emp.Name)
}

// selectRecords keeps the records named in want, or all when want is empty.
func selectRecords(records []attendance.Record, want []string) []attendance.Record {
	if len(want) == 0 {
		return records
	}
	set := make(map[string]struct{}, len(want))
	for _, id := range want {
		set[id] = struct{}{}
	}
	out := make([]attendance.Record, 0, len(want))
	for _, r := range records {
		if _, ok := set[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func ids(records []attendance.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// pendingCopies returns claimed rows as they were before the claim so
// ComputeSettlement counts them.
func pendingCopies(claimed []attendance.Record) []attendance.Record {
	out := make([]attendance.Record, len(claimed))
	for i, r := range claimed {
		r.PaymentStatus = attendance.PaymentPending
		out[i] = r
	}
	return out
}
