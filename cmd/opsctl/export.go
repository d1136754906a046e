package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gestao-urbana/backoffice-go/internal/domain/report"
	"github.com/gestao-urbana/backoffice-go/internal/pkg/filter"
	reportService "github.com/gestao-urbana/backoffice-go/internal/service/report"
)

type exportOptions struct {
	company    string
	domain     string
	format     string
	outDir     string
	search     string
	from       string
	to         string
	categories []string
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a CSV or XLSX export of one company domain",
	Long: `Export one domain (inventory, employees, finance, production) of a company.

The file is named the same way the web download is, e.g.
Relatorio_Estoque_1736942400123.csv, and written to --out (default: current directory).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := exportOpts.request()
		if err != nil {
			return err
		}

		db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		svc := reportService.NewReportService(snapshots(db), nil)
		file, err := svc.Export(operatorContext(cmd.Context(), exportOpts.company), req)
		if err != nil {
			return err
		}

		path := filepath.Join(exportOpts.outDir, file.Filename)
		if err := os.WriteFile(path, file.Body, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func (o exportOptions) request() (report.ExportRequest, error) {
	if o.company == "" {
		return report.ExportRequest{}, errors.New("--company is required")
	}
	domain, err := report.ParseDomain(o.domain)
	if err != nil {
		return report.ExportRequest{}, err
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return report.ExportRequest{}, err
	}
	req := report.ExportRequest{
		Domain: domain,
		Format: format,
		Filter: filter.Criteria{
			Search:     o.search,
			From:       o.from,
			To:         o.to,
			Categories: o.categories,
		},
	}
	if err := req.Validate(); err != nil {
		return report.ExportRequest{}, err
	}
	return req, nil
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.company, "company", "", "company id")
	f.StringVar(&exportOpts.domain, "domain", "", "inventory | employees | finance | production")
	f.StringVar(&exportOpts.format, "format", "csv", "csv | xlsx")
	f.StringVar(&exportOpts.outDir, "out", ".", "output directory")
	f.StringVar(&exportOpts.search, "q", "", "case-insensitive search")
	f.StringVar(&exportOpts.from, "from", "", "first date, YYYY-MM-DD")
	f.StringVar(&exportOpts.to, "to", "", "last date, YYYY-MM-DD")
	f.StringSliceVar(&exportOpts.categories, "category", nil, "categories to keep (repeatable)")
	rootCmd.AddCommand(exportCmd)
}
