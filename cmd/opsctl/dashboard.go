package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/gestao-urbana/backoffice-go/internal/domain/dashboard"
	dashboardService "github.com/gestao-urbana/backoffice-go/internal/service/dashboard"
)

var dashboardOpts struct {
	company string
	end     string
	months  int
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the dashboard overview of a company as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dashboardOpts.company == "" {
			return errors.New("--company is required")
		}
		db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		svc := dashboardService.NewDashboardService(snapshots(db), nil)
		overview, err := svc.Overview(operatorContext(cmd.Context(), dashboardOpts.company), dashboard.OverviewRequest{
			End:    dashboardOpts.end,
			Months: dashboardOpts.months,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	},
}

func init() {
	f := dashboardCmd.Flags()
	f.StringVar(&dashboardOpts.company, "company", "", "company id")
	f.StringVar(&dashboardOpts.end, "end", "", "last month of the series, YYYY-MM (default: current)")
	f.IntVar(&dashboardOpts.months, "months", 6, "number of months in the series")
	rootCmd.AddCommand(dashboardCmd)
}
