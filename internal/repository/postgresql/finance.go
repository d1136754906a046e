package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/domain/finance"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

const entryColumns = `id, company_id, direction, date::text, value, category, reference, description, created_at`

type entryRepositoryImpl struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) finance.EntryRepository {
	return &entryRepositoryImpl{db: db}
}

func scanEntry(row pgx.Row) (finance.Entry, error) {
	var e finance.Entry
	err := row.Scan(&e.ID, &e.CompanyID, &e.Direction, &e.Date, &e.Value, &e.Category,
		&e.Reference, &e.Description, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return finance.Entry{}, finance.ErrEntryNotFound
		}
		return finance.Entry{}, err
	}
	return e, nil
}

// Create implements finance.EntryRepository.
func (r *entryRepositoryImpl) Create(ctx context.Context, e finance.Entry) (finance.Entry, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO cash_entries (company_id, direction, date, value, category, reference, description)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING ` + entryColumns
	return scanEntry(q.QueryRow(ctx, query, e.CompanyID, e.Direction, e.Date, e.Value,
		e.Category, e.Reference, e.Description))
}

// GetByID implements finance.EntryRepository.
func (r *entryRepositoryImpl) GetByID(ctx context.Context, companyID, id string) (finance.Entry, error) {
	q := GetQuerier(ctx, r.db)
	return scanEntry(q.QueryRow(ctx, `SELECT `+entryColumns+` FROM cash_entries WHERE id = $1 AND company_id = $2`, id, companyID))
}

// List implements finance.EntryRepository. An empty direction lists both.
func (r *entryRepositoryImpl) List(ctx context.Context, companyID string, direction finance.Direction) ([]finance.Entry, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + entryColumns + ` FROM cash_entries WHERE company_id = $1`
	args := []interface{}{companyID}
	if direction != "" {
		query += ` AND direction = $2`
		args = append(args, direction)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []finance.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete implements finance.EntryRepository.
func (r *entryRepositoryImpl) Delete(ctx context.Context, companyID, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM cash_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return finance.ErrEntryNotFound
	}
	return nil
}
