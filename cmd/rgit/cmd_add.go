package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/index"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add file contents to the staging area",
		Long: `Store the content of the given files and stage them for the next commit.
Directories are added recursively; paths matched by .rgitignore are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := index.NewManager(repo.WorkingDirectory(), repo.ObjectStore())
			result, err := manager.Add(commandContext(cmd), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printPaths(out, ui.StatusAdded, result.Added)
			printPaths(out, ui.StatusModified, result.Modified)
			for _, p := range result.Ignored {
				fmt.Fprintln(out, ui.WarningMessage(fmt.Sprintf("ignored: %s (matched by .rgitignore)", p)))
			}
			return nil
		},
	}

	return cmd
}
