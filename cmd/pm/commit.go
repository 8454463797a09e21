package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/render"
	"github.com/dylan/pm/internal/pipeline/ui"
)

var (
	commitStatus  string
	commitMessage string
	commitDelete  int
)

var commitCmd = &cobra.Command{
	Use:   "commit ID",
	Short: "Commit a new action to a project",
	Long: `Append a history entry to an active project.

Without --status the latest status is repeated. --delete NODE removes a
history entry instead; NODE 0 removes the latest one.`,
	Args: cobra.ExactArgs(1),
	RunE: withWorkflow(runCommit),
}

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVarP(&commitStatus, "status", "s", "", "Change the status of the project")
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", domain.DefaultComment, "Comment of the action")
	commitCmd.Flags().IntVarP(&commitDelete, "delete", "d", 0, "Delete a node from the history of the project")
}

func runCommit(cmd *cobra.Command, args []string, a *app) error {
	id, err := parseInt("ID", args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("delete") {
		p, removed, err := a.workflow.UncommitAction(cmd.Context(), id, commitDelete)
		if err != nil {
			return err
		}
		a.logger.Debug("history entry deleted", "id", id, "node", removed.Node)
		fmt.Fprint(out, ui.History(render.FormatHistory(p, a.settings)))
		return nil
	}

	p, entry, err := a.workflow.CommitAction(cmd.Context(), id, commitStatus, commitMessage)
	if err != nil {
		return err
	}

	if entry.Status == domain.StatusDone {
		fmt.Fprintln(out, ui.Success("Congrats, one more project done !"))
		return nil
	}
	fmt.Fprint(out, ui.History(render.FormatHistory(p, a.settings)))
	return nil
}
