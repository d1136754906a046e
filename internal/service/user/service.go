package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
)

type UserServiceImpl struct {
	user.UserRepository
	logger *slog.Logger
}

func NewUserService(userRepo user.UserRepository, logger *slog.Logger) user.UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{UserRepository: userRepo, logger: logger}
}

func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]user.UserResponse, len(users))
	for i, u := range users {
		out[i] = user.NewUserResponse(u)
	}
	return out, nil
}

func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	hashed := string(hash)

	created, err := s.UserRepository.Create(context.WithoutCancel(ctx), user.User{
		CompanyID:    &companyID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &hashed,
		Role:         req.Role,
		Permissions:  req.Permissions,
	})
	if err != nil {
		return user.UserResponse{}, err
	}
	s.logger.InfoContext(ctx, "user created",
		slog.String("company_id", companyID),
		slog.String("user_id", created.ID),
		slog.String("role", string(created.Role)),
	)
	return user.NewUserResponse(created), nil
}

// UpdateAccess changes role and grants of another member of the company.
func (s *UserServiceImpl) UpdateAccess(ctx context.Context, req user.UpdateAccessRequest) (user.UserResponse, error) {
	ident, err := jwt.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if req.UserID == ident.UserID {
		return user.UserResponse{}, user.ErrCannotModifySelf
	}
	perms := req.Permissions
	if perms == nil {
		perms = user.Permissions{}
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.UserRepository.UpdateAccess(ctx, companyID, req.UserID, req.Role, perms); err != nil {
		return user.UserResponse{}, err
	}
	updated, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated), nil
}
