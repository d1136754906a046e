package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/lock"
	"github.com/gestao-urbana/backoffice-go/internal/repository/memory"
)

func setup(t *testing.T) (inventory.InventoryService, *lock.Locker, context.Context) {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewLocker(nil, 0)
	svc := NewInventoryService(store.Items(), store.Movements(), store.Transactor(), locker, nil, nil)
	return svc, locker, jwt.WithCompany(context.Background(), "c1")
}

func createItem(t *testing.T, svc inventory.InventoryService, ctx context.Context, name string, qty, min float64) inventory.Item {
	t.Helper()
	item, err := svc.CreateItem(ctx, inventory.CreateItemRequest{Name: name, Category: "EPI", Unit: "un", CurrentQty: qty, MinQty: min})
	require.NoError(t, err)
	return item
}

func move(t *testing.T, svc inventory.InventoryService, ctx context.Context, itemID string, kind inventory.MovementType, qty float64) inventory.MovementResult {
	t.Helper()
	res, err := svc.RegisterMovement(ctx, inventory.RegisterMovementRequest{ItemID: itemID, Type: kind, Quantity: qty, Date: "2025-03-01"})
	require.NoError(t, err)
	return res
}

func TestInventoryService_ReversalIsExact(t *testing.T) {
	svc, _, ctx := setup(t)
	item := createItem(t, svc, ctx, "Luvas", 10, 2)

	in := move(t, svc, ctx, item.ID, inventory.MovementIn, 5)
	assert.Equal(t, 15.0, in.Item.CurrentQty)

	back, err := svc.ReverseMovement(ctx, in.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, back.CurrentQty)

	move(t, svc, ctx, item.ID, inventory.MovementIn, 5)
	out := move(t, svc, ctx, item.ID, inventory.MovementOut, 3)
	assert.Equal(t, 12.0, out.Item.CurrentQty)

	back, err = svc.ReverseMovement(ctx, out.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, back.CurrentQty)

	_, err = svc.ReverseMovement(ctx, out.Movement.ID)
	assert.ErrorIs(t, err, inventory.ErrMovementNotFound)
}

func TestInventoryService_NegativeStockLeavesNoTrace(t *testing.T) {
	svc, _, ctx := setup(t)
	item := createItem(t, svc, ctx, "Sacos", 2, 0)

	_, err := svc.RegisterMovement(ctx, inventory.RegisterMovementRequest{ItemID: item.ID, Type: inventory.MovementOut, Quantity: 3, Date: "2025-03-01"})
	assert.ErrorIs(t, err, inventory.ErrNegativeStock)

	movements, err := svc.ListMovements(ctx, filter.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, movements)

	items, err := svc.ListItems(ctx, filter.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, items[0].CurrentQty)
}

func TestInventoryService_ReversingAnEntryBelowZeroIsRejected(t *testing.T) {
	svc, _, ctx := setup(t)
	item := createItem(t, svc, ctx, "Tinta", 0, 0)
	in := move(t, svc, ctx, item.ID, inventory.MovementIn, 4)
	move(t, svc, ctx, item.ID, inventory.MovementOut, 3)

	_, err := svc.ReverseMovement(ctx, in.Movement.ID)
	assert.ErrorIs(t, err, inventory.ErrNegativeStock)
}

func TestInventoryService_ItemBusy(t *testing.T) {
	svc, locker, ctx := setup(t)
	item := createItem(t, svc, ctx, "Areia", 10, 0)

	lease, err := locker.Acquire(ctx, lock.InventoryKey("c1", item.ID))
	require.NoError(t, err)
	defer lease.Release(ctx)

	_, err = svc.RegisterMovement(ctx, inventory.RegisterMovementRequest{ItemID: item.ID, Type: inventory.MovementIn, Quantity: 1, Date: "2025-03-01"})
	assert.ErrorIs(t, err, inventory.ErrItemBusy)
}

func TestInventoryService_CriticalAndFilters(t *testing.T) {
	svc, _, ctx := setup(t)
	createItem(t, svc, ctx, "Luvas", 1, 5)
	createItem(t, svc, ctx, "Botas", 5, 5)
	createItem(t, svc, ctx, "Capacete", 9, 5)

	critical, err := svc.CriticalItems(ctx)
	require.NoError(t, err)
	assert.Len(t, critical, 2)

	found, err := svc.ListItems(ctx, filter.Criteria{Search: "CAPA"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Capacete", found[0].Name)

	none, err := svc.ListItems(ctx, filter.Criteria{Categories: []string{"Ferramenta"}})
	require.NoError(t, err)
	assert.Empty(t, none)
}
