package company

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/company"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/fixtures"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	user.UserRepository
	tx       database.Transactor
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewCompanyService(
	companyRepo company.CompanyRepository,
	userRepo user.UserRepository,
	tx database.Transactor,
	committer snapshot.Committer,
	logger *slog.Logger,
) company.CompanyService {
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyServiceImpl{
		CompanyRepository: companyRepo,
		UserRepository:    userRepo,
		tx:                tx,
		snapshot:          committer,
		logger:            logger,
	}
}

func requireGlobal(ctx context.Context) (jwt.Identity, error) {
	ident, err := jwt.FromContext(ctx)
	if err != nil {
		return jwt.Identity{}, err
	}
	if !ident.Global() {
		return jwt.Identity{}, user.ErrInsufficientPermissions
	}
	return ident, nil
}

func (s *CompanyServiceImpl) List(ctx context.Context) ([]company.Company, error) {
	if _, err := requireGlobal(ctx); err != nil {
		return nil, err
	}
	companies, err := s.CompanyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// Create provisions a company seeded with the default categories and service
// rates, and its owner account, in one transaction.
func (s *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CreateCompanyResponse, error) {
	ident, err := requireGlobal(ctx)
	if err != nil {
		return company.CreateCompanyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.CreateCompanyResponse{}, err
	}
	seed, err := fixtures.CompanyDefaults(req.Name, req.Document)
	if err != nil {
		return company.CreateCompanyResponse{}, fmt.Errorf("load company defaults: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return company.CreateCompanyResponse{}, fmt.Errorf("hash owner password: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	var resp company.CreateCompanyResponse
	err = s.withinTx(ctx, func(ctx context.Context) error {
		created, err := s.CompanyRepository.Create(ctx, seed)
		if err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		hashed := string(hash)
		owner, err := s.UserRepository.Create(ctx, user.User{
			CompanyID:    &created.ID,
			Name:         req.OwnerName,
			Email:        req.OwnerEmail,
			PasswordHash: &hashed,
			Role:         user.RoleOwner,
		})
		if err != nil {
			return err
		}
		resp = company.CreateCompanyResponse{Company: created, Owner: user.NewUserResponse(owner)}
		return nil
	})
	if err != nil {
		return company.CreateCompanyResponse{}, err
	}

	s.logger.InfoContext(ctx, "company created",
		slog.String("company_id", resp.Company.ID),
		slog.String("owner_id", resp.Owner.ID),
		slog.String("by", ident.UserID),
	)
	return resp, nil
}

func (s *CompanyServiceImpl) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

func (s *CompanyServiceImpl) Current(ctx context.Context) (company.Company, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return company.Company{}, err
	}
	return s.CompanyRepository.GetByID(ctx, companyID)
}

func (s *CompanyServiceImpl) UpdateSettings(ctx context.Context, req company.UpdateSettingsRequest) (company.Company, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return company.Company{}, err
	}
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}

	ctx = context.WithoutCancel(ctx)
	updated, err := s.CompanyRepository.UpdateSettings(ctx, companyID, req)
	if err != nil {
		return company.Company{}, err
	}
	s.snapshot.Commit(ctx, companyID, snapshot.SetCompany(updated))
	return updated, nil
}
