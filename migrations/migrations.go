// Package migrations embeds the schema and applies it in file-name order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
)

//go:embed *.sql
var files embed.FS

// Versions lists the embedded migrations in apply order.
func Versions() ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			out = append(out, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Apply runs every migration not yet recorded in schema_migrations, each in
// its own transaction. It returns the versions it applied.
func Apply(ctx context.Context, db *database.DB) ([]string, error) {
	versions, err := Versions()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, v := range versions {
		body, err := files.ReadFile(v + ".sql")
		if err != nil {
			return applied, err
		}
		done := false
		err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			// The first migration creates schema_migrations itself.
			if _, err := tx.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, v).Scan(&exists); err != nil {
				return err
			}
			if exists {
				done = true
				return nil
			}
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, v)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("migration %s: %w", v, err)
		}
		if !done {
			applied = append(applied, v)
		}
	}
	return applied, nil
}
