package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/commitmanager"
	"github.com/utkarsh5026/rgit/pkg/common/clock"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
)

// commitClock is replaced in tests to make digests reproducible.
var commitClock = clock.Real()

func newCommitCmd() *cobra.Command {
	var (
		message string
		author  string
	)

	cmd := &cobra.Command{
		Use:   "commit -m <message>",
		Short: "Record the staged files as a new snapshot",
		Long: `Create a commit from the staged files and move the current branch to it.
The author comes from user.name and user.email unless --author is given.
The staging area is cleared afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			var identity commit.Identity
			if author != "" {
				identity, err = commit.ParseIdentity(author)
			} else {
				identity, err = repo.Config().Identity()
			}
			if err != nil {
				return err
			}

			manager := commitmanager.NewManager(repo.WorkingDirectory(), repo.ObjectStore(), commitClock)
			result, err := manager.CreateCommit(commandContext(cmd), commitmanager.CommitOptions{
				Message: message,
				Author:  identity,
			})
			if err != nil {
				return err
			}

			label := result.Branch.ShortName()
			if result.IsRoot() {
				label += " (root-commit)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s [%s %s] %s\n",
				ui.Green(ui.IconCommit),
				ui.Blue(label),
				ui.Yellow(result.Digest.Short()),
				result.Commit.Subject())
			fmt.Fprintf(out, "%s %s, %d file(s)\n",
				ui.Cyan(ui.IconAuthor),
				result.Commit.Author,
				result.Files)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().StringVar(&author, "author", "", `Override the author ("Name <email>")`)

	return cmd
}
