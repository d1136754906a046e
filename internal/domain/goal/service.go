package goal

import "context"

type GoalService interface {
	List(ctx context.Context) ([]MonthlyGoal, error)
	Upsert(ctx context.Context, req UpsertGoalRequest) (MonthlyGoal, error)
}
