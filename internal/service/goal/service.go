package goal

import (
	"context"
	"fmt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type GoalServiceImpl struct {
	goal.GoalRepository
	snapshot snapshot.Committer
}

func NewGoalService(goalRepo goal.GoalRepository, committer snapshot.Committer) goal.GoalService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	return &GoalServiceImpl{GoalRepository: goalRepo, snapshot: committer}
}

func (s *GoalServiceImpl) List(ctx context.Context) ([]goal.MonthlyGoal, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.GoalRepository.List(ctx, companyID)
}

// Upsert sets the goal of req.Month, replacing any previous one.
func (s *GoalServiceImpl) Upsert(ctx context.Context, req goal.UpsertGoalRequest) (goal.MonthlyGoal, error) {
	if err := req.Validate(); err != nil {
		return goal.MonthlyGoal{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return goal.MonthlyGoal{}, err
	}

	ctx = context.WithoutCancel(ctx)
	saved, err := s.GoalRepository.Upsert(ctx, goal.MonthlyGoal{
		CompanyID:  companyID,
		Month:      req.Month,
		Production: req.Production,
		Revenue:    req.Revenue.Round(2),
	})
	if err != nil {
		return goal.MonthlyGoal{}, fmt.Errorf("save goal: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertGoal(saved))
	return saved, nil
}
