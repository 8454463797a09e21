package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/ports"
	"github.com/dylan/pm/internal/pipeline/render"
	"github.com/dylan/pm/internal/pipeline/service"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var (
	updateName      string
	updateType      string
	updateMoney     int
	updateMoneyYear int
	updateSummary   string
	updatePI        string
	updateRef       string

	removeYes bool
)

var historyCmd = &cobra.Command{
	Use:   "history ID",
	Short: "Display the history of a project",
	Long:  `Display the header and every history entry of a project. ID 0 prints all projects.`,
	Args:  cobra.ExactArgs(1),
	RunE:  withWorkflow(runHistory),
}

var addCmd = &cobra.Command{
	Use:   "add NAME TYPE MONEY",
	Short: "Add a new project to the workflow",
	Long: `Add a project with a Start entry dated now.

TYPE is one of R&D, aR&D, Lic, aLic, MTA. MONEY is the potential amount in kEUR.`,
	Args: cobra.ExactArgs(3),
	RunE: withWorkflow(runAdd),
}

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Add new information to a project",
	Long:  `Change the descriptive fields of a project. Only the flags given are applied.`,
	Args:  cobra.ExactArgs(1),
	RunE:  withWorkflow(runUpdate),
}

var removeCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a project from the workflow",
	Long:  `Delete a project and its whole history. Asks for confirmation when run from a terminal, unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  withWorkflow(runRemove),
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(removeCmd)

	updateCmd.Flags().StringVar(&updateName, "name", "", "New project name")
	updateCmd.Flags().StringVar(&updateType, "type", "", "New type of contract")
	updateCmd.Flags().IntVar(&updateMoney, "money", 0, "Potential amount in kEUR")
	updateCmd.Flags().IntVar(&updateMoneyYear, "money-year", 0, "Amount for the current year in kEUR")
	updateCmd.Flags().StringVar(&updateSummary, "summary", "", "One-paragraph summary")
	updateCmd.Flags().StringVar(&updatePI, "pi", "", "Principal investigator")
	updateCmd.Flags().StringVar(&updateRef, "ref", "", "Contract reference")

	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runHistory(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseInt("ID", args[0])
	if err != nil {
		return err
	}

	projects := a.workflow.ProjectsByID()
	if id != 0 {
		p, err := a.workflow.FindProject(id)
		if err != nil {
			return err
		}
		projects = []*domain.Project{p}
	}

	for _, p := range projects {
		fmt.Fprint(cmd.OutOrStdout(), ui.History(render.FormatHistory(p, a.settings)))
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string, a *app) error {
	money, err := parseInt("MONEY", args[2])
	if err != nil {
		return err
	}

	p, err := a.workflow.AddProject(cmd.Context(), args[0], args[1], money)
	if err != nil {
		return err
	}

	if err := a.workflow.SortProjects(service.SortByStatus); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Success("✓ Added project #%d %s", p.ID, p.Name))
	fmt.Fprint(out, statusTable(a, false))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseInt("ID", args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var update service.ProjectUpdate
	if flags.Changed("name") {
		update.Name = &updateName
	}
	if flags.Changed("type") {
		update.Type = &updateType
	}
	if flags.Changed("money") {
		update.Money = &updateMoney
	}
	if flags.Changed("money-year") {
		update.MoneyYear = &updateMoneyYear
	}
	if flags.Changed("summary") {
		update.Summary = &updateSummary
	}
	if flags.Changed("pi") {
		update.PI = &updatePI
	}
	if flags.Changed("ref") {
		update.Ref = &updateRef
	}

	p, err := a.workflow.UpdateProject(cmd.Context(), id, update)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.History(render.FormatHistory(p, a.settings)))
	return nil
}

func runRemove(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseInt("ID", args[0])
	if err != nil {
		return err
	}

	p, err := a.workflow.FindProject(id)
	if err != nil {
		return err
	}

	switch {
	case removeYes:
	case !isInteractive(cmd):
		a.logger.Debug("stdin is not a terminal, removing without confirmation", "id", id)
	default:
		confirmed, err := ui.ConfirmRemoval(ports.GetProjectInfo(p))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn("Cancelled"))
			return nil
		}
	}

	removed, err := a.workflow.RemoveProject(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success("%s was deleted", removed))
	return nil
}
