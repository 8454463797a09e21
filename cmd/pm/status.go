package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/render"
	"github.com/dylan/pm/internal/pipeline/service"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var (
	statusAll  bool
	statusSort string

	statsStart   string
	statsEnd     string
	statsYear    int
	statsAllTime bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the status of the workflow",
	Long: `List active projects with their progress and latest comment.

Projects without activity for warn_days are shown in red; with --all,
done projects are listed first and shown in green.`,
	Args: cobra.NoArgs,
	RunE: withWorkflow(runStatus),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display statistics",
	Long: `Aggregate amounts, counts and durations over a date window.

The window defaults to the current year. Dates use the DD/MM/YYYY format
and the end date includes the whole day.`,
	Args: cobra.NoArgs,
	RunE: withWorkflow(runStats),
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)

	statusCmd.Flags().BoolVarP(&statusAll, "all", "l", false, "Display ongoing and done projects")
	statusCmd.Flags().StringVarP(&statusSort, "sort", "o", string(service.SortByStatus),
		"Sort projects by key ("+sortKeys()+")")

	statsCmd.Flags().StringVarP(&statsStart, "start", "S", "", "Start date of the statistics (DD/MM/YYYY)")
	statsCmd.Flags().StringVarP(&statsEnd, "end", "E", "", "End date of the statistics (DD/MM/YYYY)")
	statsCmd.Flags().IntVarP(&statsYear, "year", "Y", 0, "Statistics for the given year, 01/01 to 31/12")
	statsCmd.Flags().BoolVar(&statsAllTime, "all-year", false, "Statistics for all years in the database")
}

func runStatus(cmd *cobra.Command, args []string, a *app) error {
	if err := a.workflow.SortProjects(service.SortKey(statusSort)); err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), statusTable(a, statusAll))
	return nil
}

// statusTable renders active projects, preceded by done ones when all is set
func statusTable(a *app, all bool) string {
	projects := a.workflow.Active()
	if all {
		projects = append(append([]*domain.Project(nil), a.workflow.Done()...), projects...)
	}
	rows := render.StatusRows(projects, all, a.settings, time.Now())
	return ui.StatusTable(rows, a.settings.Width)
}

func runStats(cmd *cobra.Command, args []string, a *app) error {
	window, err := service.ResolveWindow(service.WindowOptions{
		Start:   statsStart,
		End:     statsEnd,
		Year:    statsYear,
		AllTime: statsAllTime,
	}, a.workflow.Active(), a.workflow.Done(), time.Now())
	if err != nil {
		return err
	}

	report := a.workflow.Statistics(window)
	a.logger.Debug("statistics computed", "start", window.Start, "end", window.End, "projects", report.All.Projects)
	fmt.Fprint(cmd.OutOrStdout(), render.FormatStats(report, a.settings.User, a.settings.Width))
	return nil
}

func sortKeys() string {
	keys := make([]string, len(service.SortKeys))
	for i, k := range service.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, "|")
}
