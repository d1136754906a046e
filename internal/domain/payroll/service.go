package payroll

import "context"

type PayrollService interface {
	Preview(ctx context.Context, req PreviewRequest) (Preview, error)

	// SettleAndPost marks the selected pending records pago and posts one
	// cash-out for their net total. A record is paid at most once however
	// many calls overlap.
	SettleAndPost(ctx context.Context, req SettleRequest) (Result, error)
}
