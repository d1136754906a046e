package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gestao-urbana/backoffice-go/internal/domain/attendance"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const attendanceColumns = `id, company_id, employee_id, date::text, status, value, bonus_value, discount_value,
	discount_observation, payment_status, clock_in, break_start, break_end, clock_out, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// scanRecord decodes the leave marker out of discount_observation so nothing
// above the repository sees the stored form.
func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec         attendance.Record
		observation string
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Date, &rec.Status,
		&rec.Value, &rec.BonusValue, &rec.DiscountValue, &observation, &rec.PaymentStatus,
		&rec.ClockIn, &rec.BreakStart, &rec.BreakEnd, &rec.ClockOut, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, err
	}
	rec.LeaveKind, rec.Note = attendance.DecodeObservation(observation)
	return rec, nil
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()
	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1 AND company_id = $2`
	return scanRecord(q.QueryRow(ctx, query, id, companyID))
}

// GetByEmployeeDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeDate(ctx context.Context, companyID, employeeID, date string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE company_id = $1 AND employee_id = $2 AND date = $3::date`
	return scanRecord(q.QueryRow(ctx, query, companyID, employeeID, date))
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, companyID string, filter attendance.ListFilter) ([]attendance.Record, error) {
	where := []string{"company_id = $1"}
	args := []interface{}{companyID}
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.EmployeeID != "" {
		add("employee_id = $%d", filter.EmployeeID)
	}
	if filter.From != "" {
		add("date >= $%d::date", filter.From)
	}
	if filter.To != "" {
		add("date <= $%d::date", filter.To)
	}
	if filter.PendingOnly {
		where = append(where, "payment_status <> 'pago'")
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY date, employee_id`

	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO attendance_records (
			company_id, employee_id, date, status, value, bonus_value, discount_value,
			discount_observation, payment_status, clock_in, break_start, break_end, clock_out
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + attendanceColumns

	if rec.PaymentStatus == "" {
		rec.PaymentStatus = attendance.PaymentPending
	}
	observation, err := attendance.EncodeLeave(rec.LeaveKind, rec.Note)
	if err != nil {
		return attendance.Record{}, err
	}
	created, err := scanRecord(q.QueryRow(ctx, query,
		rec.CompanyID, rec.EmployeeID, rec.Date, rec.Status, rec.Value, rec.BonusValue, rec.DiscountValue,
		observation, rec.PaymentStatus,
		rec.ClockIn, rec.BreakStart, rec.BreakEnd, rec.ClockOut,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrRecordExists
		}
		return attendance.Record{}, err
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, companyID, id string, patch attendance.Patch) (attendance.Record, error) {
	var u partialUpdate
	if patch.Status != nil {
		u.set("status", *patch.Status)
	}
	if patch.Value != nil {
		u.set("value", *patch.Value)
	}
	if patch.BonusValue != nil {
		u.set("bonus_value", *patch.BonusValue)
	}
	if patch.DiscountValue != nil {
		u.set("discount_value", *patch.DiscountValue)
	}
	if patch.Observation != nil {
		observation, err := attendance.EncodeLeave(patch.Observation.Leave, patch.Observation.Note)
		if err != nil {
			return attendance.Record{}, err
		}
		u.set("discount_observation", observation)
	}
	if patch.PaymentStatus != nil {
		u.set("payment_status", *patch.PaymentStatus)
	}
	if patch.Clock != nil {
		u.set("clock_in", patch.Clock.ClockIn)
		u.set("break_start", patch.Clock.BreakStart)
		u.set("break_end", patch.Clock.BreakEnd)
		u.set("clock_out", patch.Clock.ClockOut)
	}
	if u.empty() {
		return r.GetByID(ctx, companyID, id)
	}

	query, args := u.statement("attendance_records", attendanceColumns, id, companyID)
	q := GetQuerier(ctx, r.db)
	return scanRecord(q.QueryRow(ctx, query, args...))
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// ClaimForPayment implements attendance.AttendanceRepository. The
// payment_status guard makes a concurrent second claim return nothing.
func (r *attendanceRepositoryImpl) ClaimForPayment(ctx context.Context, companyID string, ids []string) ([]attendance.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE attendance_records
		SET payment_status = 'pago', updated_at = NOW()
		WHERE company_id = $1 AND id = ANY($2::uuid[]) AND payment_status <> 'pago'
		RETURNING ` + attendanceColumns

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}
