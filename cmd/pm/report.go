package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/pipeline/adapters"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var (
	reportExcel bool
	reportAll   bool
	reportOpen  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the monthly follow-up report",
	Long: `Write the follow-up document context as YAML, or with --excel the
follow-up spreadsheet, into reports_dir. Files are named after the current
month and year.`,
	Args: cobra.NoArgs,
	RunE: withWorkflow(runReport),
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportExcel, "excel", false, "Generate an Excel workbook")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "Include done projects")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "Open the report with the default application")
}

func runReport(cmd *cobra.Command, args []string, a *app) error {
	now := time.Now()

	var path string
	var err error
	if reportExcel {
		exporter := adapters.NewExcelExporter(a.cfg.ReportsDir, a.settings.ReportCellColor, a.logger)
		path, err = exporter.Export(a.workflow.TabularRows(reportAll), now)
	} else {
		writer := adapters.NewYAMLReportWriter(a.cfg.ReportsDir, a.logger)
		path, err = writer.Write(a.workflow.ReportContext(reportAll, now), now)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success("✓ Report written to %s", path))

	if reportOpen {
		if err := openFile(path); err != nil {
			a.logger.Warn("could not open report", "path", path, "error", err)
		}
	}
	return nil
}
