package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/workdir"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the working tree status",
		Long: `Show staged files, files changed since they were staged or committed,
deleted files and untracked files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			status, err := workdir.NewManager(repo.WorkingDirectory(), repo.ObjectStore()).Status(commandContext(cmd))
			if err != nil {
				return err
			}

			displayStatus(cmd, status)
			return nil
		},
	}

	return cmd
}

func displayStatus(cmd *cobra.Command, status *workdir.Status) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.BranchInfo(status.Branch.ShortName()))
	if status.Head.IsZero() {
		fmt.Fprintln(out, ui.Dim("No commits yet"))
	}
	fmt.Fprintln(out)

	if status.IsClean() {
		fmt.Fprintln(out, ui.Green(fmt.Sprintf("  %s  nothing to commit, working tree clean", ui.IconCheck)))
		return
	}

	if len(status.Staged) > 0 {
		fmt.Fprintln(out, ui.Section("Changes to be committed:"))
		for _, f := range status.Staged {
			fmt.Fprintln(out, ui.FormatFileStatus(ui.StatusStaged, fmt.Sprintf("%-10s %s", f.Change.String()+":", f.Path)))
		}
		fmt.Fprintln(out)
	}

	if len(status.Modified) > 0 || len(status.Deleted) > 0 {
		fmt.Fprintln(out, ui.Section("Changes not staged for commit:"))
		printPaths(out, ui.StatusModified, status.Modified)
		printPaths(out, ui.StatusDeleted, status.Deleted)
		fmt.Fprintln(out)
	}

	if len(status.Untracked) > 0 {
		fmt.Fprintln(out, ui.Section("Untracked files:"))
		printPaths(out, ui.StatusUntracked, status.Untracked)
		fmt.Fprintln(out)
	}
}
