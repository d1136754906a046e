package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/inventory"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const (
	itemColumns     = `id, company_id, name, category, unit, current_qty, min_qty, created_at`
	movementColumns = `m.id, m.company_id, m.item_id, i.name, m.type, m.quantity, m.date::text, m.responsible, m.note, m.created_at`
)

type itemRepositoryImpl struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) inventory.ItemRepository {
	return &itemRepositoryImpl{db: db}
}

func scanItem(row pgx.Row) (inventory.Item, error) {
	var it inventory.Item
	err := row.Scan(&it.ID, &it.CompanyID, &it.Name, &it.Category, &it.Unit, &it.CurrentQty, &it.MinQty, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, inventory.ErrItemNotFound
		}
		return inventory.Item{}, err
	}
	return it, nil
}

// List implements inventory.ItemRepository.
func (r *itemRepositoryImpl) List(ctx context.Context, companyID string) ([]inventory.Item, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []inventory.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetByID implements inventory.ItemRepository. Inside a transaction the row
// is locked until commit.
func (r *itemRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 AND company_id = $2`
	if _, inTx := ctx.Value(txKey{}).(pgx.Tx); inTx {
		query += ` FOR UPDATE`
	}
	return scanItem(q.QueryRow(ctx, query, id, companyID))
}

// Create implements inventory.ItemRepository.
func (r *itemRepositoryImpl) Create(ctx context.Context, it inventory.Item) (inventory.Item, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO inventory_items (company_id, name, category, unit, current_qty, min_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + itemColumns
	return scanItem(q.QueryRow(ctx, query, it.CompanyID, it.Name, it.Category, it.Unit, it.CurrentQty, it.MinQty))
}

// Update implements inventory.ItemRepository.
func (r *itemRepositoryImpl) Update(ctx context.Context, companyID string, req inventory.UpdateItemRequest) (inventory.Item, error) {
	var u partialUpdate
	if req.Name != nil {
		u.set("name", *req.Name)
	}
	if req.Category != nil {
		u.set("category", *req.Category)
	}
	if req.Unit != nil {
		u.set("unit", *req.Unit)
	}
	if req.MinQty != nil {
		u.set("min_qty", *req.MinQty)
	}
	if u.empty() {
		return r.GetByID(ctx, companyID, req.ID)
	}

	query, args := u.statement("inventory_items", itemColumns, req.ID, companyID)
	q := GetQuerier(ctx, r.db)
	return scanItem(q.QueryRow(ctx, query, args...))
}

// SetQuantity implements inventory.ItemRepository.
func (r *itemRepositoryImpl) SetQuantity(ctx context.Context, companyID, id string, qty float64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE inventory_items SET current_qty = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		qty, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}

type movementRepositoryImpl struct {
	db *database.DB
}

func NewMovementRepository(db *database.DB) inventory.MovementRepository {
	return &movementRepositoryImpl{db: db}
}

func scanMovement(row pgx.Row) (inventory.Movement, error) {
	var m inventory.Movement
	err := row.Scan(&m.ID, &m.CompanyID, &m.ItemID, &m.ItemName, &m.Type, &m.Quantity, &m.Date,
		&m.Responsible, &m.Note, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Movement{}, inventory.ErrMovementNotFound
		}
		return inventory.Movement{}, err
	}
	return m, nil
}

// List implements inventory.MovementRepository.
func (r *movementRepositoryImpl) List(ctx context.Context, companyID string) ([]inventory.Movement, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements m
		JOIN inventory_items i ON i.id = m.item_id
		WHERE m.company_id = $1
		ORDER BY m.date DESC, m.created_at DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []inventory.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// GetByID implements inventory.MovementRepository.
func (r *movementRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (inventory.Movement, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements m
		JOIN inventory_items i ON i.id = m.item_id
		WHERE m.id = $1 AND m.company_id = $2`
	return scanMovement(q.QueryRow(ctx, query, id, companyID))
}

// Create implements inventory.MovementRepository.
func (r *movementRepositoryImpl) Create(ctx context.Context, m inventory.Movement) (inventory.Movement, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		WITH m AS (
			INSERT INTO inventory_movements (company_id, item_id, type, quantity, date, responsible, note)
			VALUES ($1, $2, $3, $4, $5::date, $6, $7)
			RETURNING *
		)
		SELECT ` + movementColumns + `
		FROM m
		JOIN inventory_items i ON i.id = m.item_id`
	return scanMovement(q.QueryRow(ctx, query, m.CompanyID, m.ItemID, m.Type, m.Quantity, m.Date, m.Responsible, m.Note))
}

// Delete implements inventory.MovementRepository.
func (r *movementRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return inventory.ErrMovementNotFound
	}
	return nil
}
