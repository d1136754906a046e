package goal

import "context"

type GoalRepository interface {
	List(ctx context.Context, companyID string) ([]MonthlyGoal, error)
	// Upsert inserts or replaces the goal of (company, month).
	Upsert(ctx context.Context, g MonthlyGoal) (MonthlyGoal, error)
}
