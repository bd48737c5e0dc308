package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/index"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <path>...",
		Short: "Unstage files",
		Long: `Remove paths from the staging area. The working tree is not touched.
A directory unstages everything beneath it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := index.NewManager(repo.WorkingDirectory(), repo.ObjectStore())
			result, err := manager.Remove(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range result.Removed {
				fmt.Fprintf(out, "unstaged: %s\n", p)
			}
			for _, p := range result.NotStaged {
				fmt.Fprintln(out, ui.WarningMessage(fmt.Sprintf("not staged: %s", p)))
			}
			return nil
		},
	}

	return cmd
}
