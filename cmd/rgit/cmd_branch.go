package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/commitmanager"
	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/refs/branch"
	"github.com/utkarsh5026/rgit/pkg/repository/sourcerepo"
)

func newBranchManager(repo *sourcerepo.SourceRepository) *branch.Manager {
	commits := commitmanager.NewManager(repo.WorkingDirectory(), repo.ObjectStore(), clock.Real())
	return branch.NewManager(repo.SourceDirectory(), commits)
}

func newBranchCmd() *cobra.Command {
	var (
		deleteFlag      bool
		forceDeleteFlag bool
		renameFlag      bool
		forceFlag       bool
	)

	cmd := &cobra.Command{
		Use:   "branch [branch-name] [start-point]",
		Short: "List, create, delete, or rename branches",
		Long: `List, create, delete, or rename branches.

With no arguments, lists all branches. The current branch is marked with *.
With a name argument, creates a new branch at HEAD or at start-point, which
may be a branch name or a commit digest.

Examples:
  # Create a branch from a specific commit
  rgit branch feature-name 3b18e512dba79e4c8300dd08aeb37f8e728b8dad

  # Delete a branch whose commits are not in HEAD's history
  rgit branch -D feature-name

  # Rename the current branch
  rgit branch -m new-name`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := newBranchManager(repo)
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()

			switch {
			case renameFlag:
				if len(args) == 0 {
					return invalidArgs("new branch name required for rename")
				}
				oldName, newName := "", args[0]
				if len(args) == 2 {
					oldName, newName = args[0], args[1]
				} else if oldName, err = manager.CurrentBranch(); err != nil {
					return err
				}

				var opts []branch.RenameOption
				if forceFlag {
					opts = append(opts, branch.WithForceRename())
				}
				if err := manager.RenameBranch(ctx, oldName, newName, opts...); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.SuccessMessage("Branch renamed", oldName+" -> "+newName))
				return nil

			case deleteFlag || forceDeleteFlag:
				if len(args) != 1 {
					return invalidArgs("exactly one branch name required for deletion")
				}

				var opts []branch.DeleteOption
				if forceFlag || forceDeleteFlag {
					opts = append(opts, branch.WithForceDelete())
				}
				if err := manager.DeleteBranch(ctx, args[0], opts...); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.SuccessMessage("Deleted branch", args[0]))
				return nil

			case len(args) == 0:
				branches, err := manager.ListBranches(ctx)
				if err != nil {
					return err
				}
				displayBranches(out, branches)
				return nil
			}

			var opts []branch.CreateOption
			if len(args) > 1 {
				opts = append(opts, branch.WithStartPoint(args[1]))
			}
			if forceFlag {
				opts = append(opts, branch.WithForceCreate())
			}

			info, err := manager.CreateBranch(ctx, args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.SuccessMessage("Created branch", info.Name, info.Head.Short()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&deleteFlag, "delete", "d", false, "Delete a branch")
	cmd.Flags().BoolVarP(&forceDeleteFlag, "force-delete", "D", false, "Force delete a branch (shorthand for -d -f)")
	cmd.Flags().BoolVarP(&renameFlag, "move", "m", false, "Rename a branch")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Force operation (overwrite on create or rename, skip merge check on delete)")

	return cmd
}

func displayBranches(out io.Writer, branches []branch.BranchInfo) {
	for _, br := range branches {
		prefix := "  "
		name := br.Name
		if br.IsCurrent {
			prefix = ui.Green("* ")
			name = ui.Green(br.Name)
		}

		if br.Head.IsZero() {
			fmt.Fprintf(out, "%s%-20s %s\n", prefix, name, ui.Dim("(no commits yet)"))
			continue
		}
		fmt.Fprintf(out, "%s%-20s %s %s\n", prefix, name, ui.Yellow(br.Head.Short()), br.Subject)
	}
}
