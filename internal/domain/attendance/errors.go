package attendance

import "errors"

var (
	ErrRecordNotFound              = errors.New("attendance record not found")
	ErrEmployeeInactive            = errors.New("employee is inactive")
	ErrToggleRequiresDailyModality = errors.New("quick toggle is only available for DIARIA employees")
	ErrRecordAlreadyPaid           = errors.New("attendance record is already paid")
	ErrInvalidVirtualStatus        = errors.New("invalid attendance status")
	ErrReservedObservationPrefix   = errors.New("note cannot start with [AT], [FJ] or [FE]")
	ErrInvalidDate                 = errors.New("date must be in YYYY-MM-DD format")
	ErrCompanyMismatch             = errors.New("record belongs to another company")
	ErrRecordExists                = errors.New("attendance record already exists for this employee and date")
)
