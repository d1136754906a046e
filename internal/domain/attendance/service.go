package attendance

import (
	"context"
)

type AttendanceService interface {
	List(ctx context.Context, req ListRequest) ([]RecordResponse, error)

	// Toggle advances a DIARIA employee's day one step through
	// none -> present -> partial -> absent -> none.
	Toggle(ctx context.Context, req ToggleRequest) (ToggleResponse, error)

	// SavePoint records a day from the six-way status form.
	SavePoint(ctx context.Context, req SavePointRequest) (RecordResponse, error)

	// EditValues adjusts value, discount, bonus and note of one record.
	EditValues(ctx context.Context, req EditValuesRequest) (RecordResponse, error)
}
