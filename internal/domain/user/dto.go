package user

import (
	"context"
	"strings"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
)

type UserResponse struct {
	ID          string        `json:"id"`
	CompanyID   *string       `json:"company_id,omitempty"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Role        Role          `json:"role"`
	Permissions Permissions   `json:"permissions"`
	Sections    CapabilitySet `json:"sections"`
	CreatedAt   string        `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
		Sections:    u.Sections(),
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateUserRequest adds a member to the caller's company.
type CreateUserRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "invalid email format"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	// Global admins are provisioned out of band, never through a company.
	if !r.Role.Valid() || r.Role.IsGlobal() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: owner, manager, operator"})
	}
	errs = append(errs, validatePermissions(r.Permissions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAccessRequest struct {
	UserID      string      `json:"-"`
	Role        Role        `json:"role"`
	Permissions Permissions `json:"permissions"`
}

func (r *UpdateAccessRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if !r.Role.Valid() || r.Role.IsGlobal() {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: owner, manager, operator"})
	}
	errs = append(errs, validatePermissions(r.Permissions)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePermissions(perms Permissions) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for c := range perms {
		if !c.Valid() {
			errs = append(errs, validator.ValidationError{Field: "permissions." + string(c), Message: "unknown capability"})
		}
	}
	return errs
}

type UserService interface {
	List(ctx context.Context) ([]UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	UpdateAccess(ctx context.Context, req UpdateAccessRequest) (UserResponse, error)
}
