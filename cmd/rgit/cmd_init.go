package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/repository/sourcerepo"
	"github.com/utkarsh5026/rgit/pkg/store"
)

func newInitCmd() *cobra.Command {
	var (
		writeIgnore bool
		compression string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty rgit repository",
		Long: `Create an empty repository in the current directory or the given path.
This creates a .rgit directory holding the object store, refs, config and
the staging index.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			repoPath, err := scpath.NewRepositoryPath(path)
			if err != nil {
				return invalidFlag(err)
			}

			c, err := store.ParseCompression(compression)
			if err != nil {
				return invalidFlag(err)
			}

			repo, err := sourcerepo.InitializeRepository(repoPath, sourcerepo.InitOptions{
				Compression: c,
				WriteIgnore: writeIgnore,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage(
				"Initialized empty rgit repository in", repo.SourceDirectory().String()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeIgnore, "ignore", false, "Write a starter "+scpath.IgnoreFile)
	cmd.Flags().StringVar(&compression, "compression", "zlib", "Object compression (zlib, zstd)")

	return cmd
}
