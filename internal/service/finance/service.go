package finance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type FinanceServiceImpl struct {
	finance.EntryRepository
	company.CompanyRepository
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewFinanceService(
	entryRepo finance.EntryRepository,
	companyRepo company.CompanyRepository,
	committer snapshot.Committer,
	logger *slog.Logger,
) finance.FinanceService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceServiceImpl{
		EntryRepository:   entryRepo,
		CompanyRepository: companyRepo,
		snapshot:          committer,
		logger:            logger,
	}
}

// Post records a cash entry. When the company has configured finance
// categories the entry must use one of them.
func (s *FinanceServiceImpl) Post(ctx context.Context, req finance.CreateEntryRequest) (finance.Entry, error) {
	if err := req.Validate(); err != nil {
		return finance.Entry{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return finance.Entry{}, err
	}

	comp, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return finance.Entry{}, err
	}
	if len(comp.FinanceCategories) > 0 && !comp.HasFinanceCategory(req.Category) {
		return finance.Entry{}, validator.ValidationErrors{{Field: "category", Message: finance.ErrUnknownCategory.Error()}}
	}

	ctx = context.WithoutCancel(ctx)
	entry, err := s.EntryRepository.Create(ctx, finance.Entry{
		CompanyID:   companyID,
		Direction:   req.Direction,
		Date:        req.Date,
		Value:       req.Value.Round(2),
		Category:    req.Category,
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		return finance.Entry{}, fmt.Errorf("post cash entry: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.AddCashEntry(entry))
	return entry, nil
}

func (s *FinanceServiceImpl) Delete(ctx context.Context, id string) error {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.EntryRepository.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "cash entry deleted",
		slog.String("company_id", companyID),
		slog.String("entry_id", id))
	s.snapshot.Commit(ctx, companyID, snapshot.RemoveCashEntry(id))
	return nil
}

// List filters one direction (or both when empty) and totals the result.
// Out entries count negative in a two-sided listing.
func (s *FinanceServiceImpl) List(ctx context.Context, req finance.ListEntriesRequest) (finance.ListEntriesResponse, error) {
	if req.Direction != "" && !req.Direction.Valid() {
		return finance.ListEntriesResponse{}, validator.ValidationErrors{{Field: "direction", Message: finance.ErrInvalidDirection.Error()}}
	}
	if err := req.Criteria.Validate(); err != nil {
		return finance.ListEntriesResponse{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return finance.ListEntriesResponse{}, err
	}

	entries, err := s.EntryRepository.List(ctx, companyID, req.Direction)
	if err != nil {
		return finance.ListEntriesResponse{}, fmt.Errorf("list cash entries: %w", err)
	}
	entries = filter.Apply(entries, req.Criteria, finance.EntryFields)

	total := decimal.Zero
	for _, e := range entries {
		if req.Direction == "" && e.Direction == finance.DirectionOut {
			total = total.Sub(e.Value)
			continue
		}
		total = total.Add(e.Value)
	}
	return finance.ListEntriesResponse{Entries: entries, Total: total}, nil
}
