package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/commitmanager"
	"github.com/utkarsh5026/rgit/pkg/common/clock"
)

const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd() *cobra.Command {
	var (
		limit    int
		useTable bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Long:  `Show the commits reachable from HEAD, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			manager := commitmanager.NewManager(repo.WorkingDirectory(), repo.ObjectStore(), clock.Real())
			history, err := manager.History(commandContext(cmd), "", limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, ui.Yellow("No commits yet"))
				return nil
			}

			if useTable {
				return displayCommitsAsTable(out, history)
			}
			displayCommitsDetailed(out, history)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit the number of commits to show (0 means all)")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display commits in table format")

	return cmd
}

// displayCommitsDetailed shows one framed box per commit
func displayCommitsDetailed(out io.Writer, history []commitmanager.HistoryEntry) {
	for i, entry := range history {
		fmt.Fprintln(out, ui.FormatCommitDetailed(ui.CommitInfo{
			Hash:    entry.Digest.String(),
			Author:  entry.Commit.Author.String(),
			Date:    entry.Commit.Date.Format(logDateLayout),
			Message: entry.Commit.Message,
		}))
		if i < len(history)-1 {
			fmt.Fprintln(out, ui.FormatCommitSeparator())
		}
	}
}

// displayCommitsAsTable shows commits in a compact table format
func displayCommitsAsTable(out io.Writer, history []commitmanager.HistoryEntry) error {
	table := tablewriter.NewWriter(out)
	table.Header("Commit", "Author", "Date", "Message")

	for _, entry := range history {
		if err := table.Append(
			entry.Digest.Short(),
			entry.Commit.Author.Name,
			entry.Commit.Date.Format("2006-01-02 15:04"),
			truncate(entry.Commit.Subject(), 50),
		); err != nil {
			return err
		}
	}

	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
