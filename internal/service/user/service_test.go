package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/validator"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

func ownerCtx(userID, companyID string) context.Context {
	return jwt.WithIdentity(context.Background(), jwt.Identity{UserID: userID, CompanyID: companyID, Role: user.RoleOwner})
}

func TestUserService_CreateAndList(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users(), nil)
	ctx := ownerCtx("owner-1", "company-1")

	created, err := svc.Create(ctx, user.CreateUserRequest{
		Name:        "Paulo Lima",
		Email:       "Paulo@Example.com",
		Password:    "password123",
		Role:        user.RoleOperator,
		Permissions: user.Permissions{user.CapabilityEmployees: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "paulo@example.com", created.Email)
	assert.Equal(t, []user.Capability{user.CapabilityProduction, user.CapabilityInventory, user.CapabilityEmployees}, created.Sections.List())

	_, err = svc.Create(ctx, user.CreateUserRequest{Name: "Outro", Email: "paulo@example.com", Password: "password123", Role: user.RoleManager})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = svc.Create(ctx, user.CreateUserRequest{Name: "Root", Email: "root@example.com", Password: "password123", Role: user.RoleAdmin})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "role", verrs[0].Field)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	other, err := svc.List(ownerCtx("owner-2", "company-2"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUserService_UpdateAccess(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store.Users(), nil)
	ctx := ownerCtx("owner-1", "company-1")

	member, err := svc.Create(ctx, user.CreateUserRequest{Name: "Paulo", Email: "paulo@example.com", Password: "password123", Role: user.RoleOperator})
	require.NoError(t, err)

	updated, err := svc.UpdateAccess(ctx, user.UpdateAccessRequest{
		UserID:      member.ID,
		Role:        user.RoleManager,
		Permissions: user.Permissions{user.CapabilityAI: false},
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, updated.Role)
	assert.False(t, updated.Sections.Has(user.CapabilityAI))
	assert.True(t, updated.Sections.Has(user.CapabilityFinance))

	_, err = svc.UpdateAccess(ctx, user.UpdateAccessRequest{UserID: "owner-1", Role: user.RoleManager})
	assert.ErrorIs(t, err, user.ErrCannotModifySelf)

	_, err = svc.UpdateAccess(ownerCtx("owner-2", "company-2"), user.UpdateAccessRequest{UserID: member.ID, Role: user.RoleOperator})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
