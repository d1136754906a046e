package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/domain/snapshot"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/lock"
)

type InventoryServiceImpl struct {
	inventory.ItemRepository
	inventory.MovementRepository
	tx       database.Transactor
	locker   *lock.Locker
	snapshot snapshot.Committer
	logger   *slog.Logger
}

func NewInventoryService(
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	tx database.Transactor,
	locker *lock.Locker,
	committer snapshot.Committer,
	logger *slog.Logger,
) inventory.InventoryService {
	if locker == nil {
		locker = lock.NewLocker(nil, 0)
	}
	if committer == nil {
		committer = snapshot.NopCommitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryServiceImpl{
		ItemRepository:     itemRepo,
		MovementRepository: movementRepo,
		tx:                 tx,
		locker:             locker,
		snapshot:           committer,
		logger:             logger,
	}
}

func (s *InventoryServiceImpl) ListItems(ctx context.Context, c filter.Criteria) ([]inventory.Item, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.ItemRepository.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return filter.Apply(items, c, inventory.ItemFields), nil
}

// CriticalItems lists items at or below their minimum.
func (s *InventoryServiceImpl) CriticalItems(ctx context.Context) ([]inventory.Item, error) {
	items, err := s.ListItems(ctx, filter.Criteria{})
	if err != nil {
		return nil, err
	}
	out := make([]inventory.Item, 0)
	for _, i := range items {
		if i.IsCritical() {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *InventoryServiceImpl) CreateItem(ctx context.Context, req inventory.CreateItemRequest) (inventory.Item, error) {
	if err := req.Validate(); err != nil {
		return inventory.Item{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return inventory.Item{}, err
	}

	ctx = context.WithoutCancel(ctx)
	item, err := s.ItemRepository.Create(ctx, inventory.Item{
		CompanyID:  companyID,
		Name:       req.Name,
		Category:   req.Category,
		Unit:       req.Unit,
		CurrentQty: req.CurrentQty,
		MinQty:     req.MinQty,
	})
	if err != nil {
		return inventory.Item{}, fmt.Errorf("create item: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertItem(item))
	return item, nil
}

func (s *InventoryServiceImpl) UpdateItem(ctx context.Context, req inventory.UpdateItemRequest) (inventory.Item, error) {
	if err := req.Validate(); err != nil {
		return inventory.Item{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return inventory.Item{}, err
	}

	ctx = context.WithoutCancel(ctx)
	item, err := s.ItemRepository.Update(ctx, companyID, req)
	if err != nil {
		return inventory.Item{}, fmt.Errorf("update item: %w", err)
	}
	s.snapshot.Commit(ctx, companyID, snapshot.UpsertItem(item))
	return item, nil
}

func (s *InventoryServiceImpl) ListMovements(ctx context.Context, c filter.Criteria) ([]inventory.Movement, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}
	movements, err := s.MovementRepository.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return filter.Apply(movements, c, inventory.MovementFields), nil
}

// withItemLock serialises stock changes of one item across requests and
// runs fn in a transaction when the store has one.
func (s *InventoryServiceImpl) withItemLock(ctx context.Context, companyID, itemID string, fn func(ctx context.Context) error) error {
	lease, err := s.locker.Acquire(ctx, lock.InventoryKey(companyID, itemID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return inventory.ErrItemBusy
		}
		return err
	}
	defer func() {
		if err := lease.Release(ctx); err != nil {
			s.logger.WarnContext(ctx, "release inventory lock", slog.String("error", err.Error()))
		}
	}()

	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

// RegisterMovement inserts the movement and applies its delta to the item.
func (s *InventoryServiceImpl) RegisterMovement(ctx context.Context, req inventory.RegisterMovementRequest) (inventory.MovementResult, error) {
	if err := req.Validate(); err != nil {
		return inventory.MovementResult{}, err
	}
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return inventory.MovementResult{}, err
	}

	ctx = context.WithoutCancel(ctx)
	var result inventory.MovementResult
	err = s.withItemLock(ctx, companyID, req.ItemID, func(ctx context.Context) error {
		item, err := s.ItemRepository.GetByID(ctx, companyID, req.ItemID)
		if err != nil {
			return err
		}
		m := inventory.Movement{
			CompanyID:   companyID,
			ItemID:      item.ID,
			Type:        req.Type,
			Quantity:    req.Quantity,
			Date:        req.Date,
			Responsible: req.Responsible,
			Note:        req.Note,
		}
		next, err := inventory.Apply(item, m)
		if err != nil {
			return err
		}

		saved, err := s.MovementRepository.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}
		if err := s.ItemRepository.SetQuantity(ctx, companyID, item.ID, next.CurrentQty); err != nil {
			return fmt.Errorf("apply movement: %w", err)
		}
		result = inventory.MovementResult{Movement: saved, Item: next}
		return nil
	})
	if err != nil {
		return inventory.MovementResult{}, err
	}

	s.logger.InfoContext(ctx, "inventory movement registered",
		slog.String("company_id", companyID),
		slog.String("item_id", result.Item.ID),
		slog.String("type", string(result.Movement.Type)),
		slog.Float64("quantity", result.Movement.Quantity))
	s.snapshot.Commit(ctx, companyID, snapshot.Chain(
		snapshot.UpsertItem(result.Item),
		snapshot.UpsertMovement(result.Movement),
	))
	return result, nil
}

// ReverseMovement deletes a movement and applies the exact inverse of its
// delta, so the item ends where it was before the movement.
func (s *InventoryServiceImpl) ReverseMovement(ctx context.Context, id string) (inventory.Item, error) {
	companyID, err := jwt.CompanyFromContext(ctx)
	if err != nil {
		return inventory.Item{}, err
	}
	m, err := s.MovementRepository.GetByID(ctx, companyID, id)
	if err != nil {
		return inventory.Item{}, err
	}

	ctx = context.WithoutCancel(ctx)
	var item inventory.Item
	err = s.withItemLock(ctx, companyID, m.ItemID, func(ctx context.Context) error {
		current, err := s.ItemRepository.GetByID(ctx, companyID, m.ItemID)
		if err != nil {
			return err
		}
		next, err := inventory.Reverse(current, m)
		if err != nil {
			return err
		}
		if err := s.MovementRepository.Delete(ctx, companyID, m.ID); err != nil {
			return err
		}
		if err := s.ItemRepository.SetQuantity(ctx, companyID, current.ID, next.CurrentQty); err != nil {
			return fmt.Errorf("revert movement: %w", err)
		}
		item = next
		return nil
	})
	if err != nil {
		return inventory.Item{}, err
	}

	s.snapshot.Commit(ctx, companyID, snapshot.Chain(
		snapshot.UpsertItem(item),
		snapshot.RemoveMovement(m.ID),
	))
	return item, nil
}
