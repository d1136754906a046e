package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gestao-urbana/backoffice-go/internal/domain/assistant"
	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	dashboardservice "github.com/gestao-urbana/backoffice-go/internal/service/dashboard"
)

type AssistantServiceImpl struct {
	snapshots snapshot.SnapshotService
	generator assistant.Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssistantService returns a service that refuses every chat when
// generator is nil.
func NewAssistantService(snapshots snapshot.SnapshotService, generator assistant.Generator, logger *slog.Logger) assistant.AssistantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantServiceImpl{
		snapshots: snapshots,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// BuildContext renders the metrics the assistant may talk about.
func BuildContext(summary dashboard.Summary) (string, error) {
	raw, err := json.Marshal(struct {
		TotalAreas           int      `json:"totalAreas"`
		CumulativeProduction float64  `json:"cumulativeProduction"`
		CumulativeRevenue    string   `json:"cumulativeRevenue"`
		CashBalance          string   `json:"cashBalance"`
		LowStockItems        []string `json:"lowStockItems"`
		CurrentMonthGoal     float64  `json:"currentMonthGoal"`
		ActiveEmployees      int      `json:"activeEmployees"`
	}{
		TotalAreas:           summary.TotalAreas,
		CumulativeProduction: summary.CumulativeProduction,
		CumulativeRevenue:    summary.CumulativeRevenue.StringFixed(2),
		CashBalance:          summary.CashBalance.StringFixed(2),
		LowStockItems:        summary.LowStockItems,
		CurrentMonthGoal:     summary.CurrentMonthGoal,
		ActiveEmployees:      summary.ActiveEmployees,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *AssistantServiceImpl) Chat(ctx context.Context, req assistant.ChatRequest) (assistant.ChatResponse, error) {
	if s.generator == nil {
		return assistant.ChatResponse{}, assistant.ErrAssistantDisabled
	}
	if err := req.Validate(); err != nil {
		return assistant.ChatResponse{}, err
	}

	snap, err := s.snapshots.Current(ctx)
	if err != nil {
		return assistant.ChatResponse{}, err
	}
	blob, err := BuildContext(dashboardservice.Summarize(snap, s.now()))
	if err != nil {
		return assistant.ChatResponse{}, fmt.Errorf("build assistant context: %w", err)
	}

	start := s.now()
	reply, err := s.generator.Generate(ctx, blob, req.Messages)
	if err != nil {
		s.logger.WarnContext(ctx, "assistant generation failed",
			slog.String("company_id", snap.CompanyID),
			slog.Any("error", err),
		)
		return assistant.ChatResponse{}, err
	}
	s.logger.DebugContext(ctx, "assistant replied",
		slog.String("company_id", snap.CompanyID),
		slog.Int("messages", len(req.Messages)),
		slog.Duration("took", s.now().Sub(start)),
	)
	return assistant.ChatResponse{Reply: reply}, nil
}
