package postgresql

import (
	"context"

	"github.com/gestao-urbana/backoffice-go/internal/domain/goal"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

type goalRepositoryImpl struct {
	db *database.DB
}

func NewGoalRepository(db *database.DB) goal.GoalRepository {
	return &goalRepositoryImpl{db: db}
}

// List implements goal.GoalRepository.
func (r *goalRepositoryImpl) List(ctx context.Context, companyID string) ([]goal.MonthlyGoal, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT company_id, month, production, revenue
		FROM monthly_goals
		WHERE company_id = $1
		ORDER BY month`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []goal.MonthlyGoal
	for rows.Next() {
		var g goal.MonthlyGoal
		if err := rows.Scan(&g.CompanyID, &g.Month, &g.Production, &g.Revenue); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Upsert implements goal.GoalRepository.
func (r *goalRepositoryImpl) Upsert(ctx context.Context, g goal.MonthlyGoal) (goal.MonthlyGoal, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO monthly_goals (company_id, month, production, revenue)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, month)
		DO UPDATE SET production = EXCLUDED.production, revenue = EXCLUDED.revenue
		RETURNING company_id, month, production, revenue
	`
	var saved goal.MonthlyGoal
	err := q.QueryRow(ctx, query, g.CompanyID, g.Month, g.Production, g.Revenue).
		Scan(&saved.CompanyID, &saved.Month, &saved.Production, &saved.Revenue)
	return saved, err
}
