// Command opsctl runs operator tasks against the back-office database:
// schema migrations, domain exports and dashboard dumps.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestao-urbana/backoffice-go/internal/config"
	"github.com/gestao-urbana/backoffice-go/internal/domain/user"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/database"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/jwt"
	"github.com/gestao-urbana/backoffice-go/internal/repository/postgresql"
	snapshotService "github.com/gestao-urbana/backoffice-go/internal/service/snapshot"
)

// operatorID is the user id recorded for work done through this tool.
const operatorID = "opsctl"

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:           "opsctl",
		Short:         "Operator tasks for the back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// operatorContext acts as a platform admin scoped to companyID.
func operatorContext(ctx context.Context, companyID string) context.Context {
	ctx = jwt.WithIdentity(ctx, jwt.Identity{UserID: operatorID, Role: user.RoleAdmin})
	if companyID != "" {
		ctx = jwt.WithCompany(ctx, companyID)
	}
	return ctx
}

func connect(ctx context.Context) (*database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// snapshots reads straight from the database. Exports must not be served a
// stale cached document.
func snapshots(db *database.DB) *snapshotService.SnapshotServiceImpl {
	return snapshotService.NewSnapshotService(snapshotService.Sources{
		Companies:  postgresql.NewCompanyRepository(db),
		Employees:  postgresql.NewEmployeeRepository(db),
		Attendance: postgresql.NewAttendanceRepository(db),
		Areas:      postgresql.NewAreaRepository(db),
		Items:      postgresql.NewItemRepository(db),
		Movements:  postgresql.NewMovementRepository(db),
		Entries:    postgresql.NewEntryRepository(db),
		Goals:      postgresql.NewGoalRepository(db),
	}, nil, nil, slog.Default())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "opsctl:", err)
		os.Exit(1)
	}
}
