package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
)

func newSwitchCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "switch <branch>",
		Short: "Point HEAD at another branch",
		Long: `Point HEAD at another branch so the next commit extends it.

Only HEAD moves: working files and staged entries stay as they are, and
status compares them with the new branch tip. With -c the branch is
created at the current commit first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := newBranchManager(repo)
			ctx := commandContext(cmd)

			if create {
				if _, err := manager.CreateBranch(ctx, args[0]); err != nil {
					return err
				}
			}

			info, err := manager.Switch(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.BranchInfo(info.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "c", false, "Create the branch before switching to it")

	return cmd
}
