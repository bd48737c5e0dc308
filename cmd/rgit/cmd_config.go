package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/config"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

func newConfigCmd() *cobra.Command {
	var (
		global bool
		list   bool
		unset  bool
	)

	cmd := &cobra.Command{
		Use:   "config [<key> [<value>]]",
		Short: "Get and set repository or global options",
		Long: `Read or write configuration. Known keys:

  user.name         commit author name
  user.email        commit author email
  core.compression  object compression for new objects (zlib, zstd)

Values are written to .rgit/config, or to ~/.rgitconfig with --global.
RGIT_AUTHOR_NAME and RGIT_AUTHOR_EMAIL override the identity.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}

			level := config.RepositoryLevel
			if global {
				level = config.UserLevel
			}

			out := cmd.OutOrStdout()
			switch {
			case unset && len(args) != 1:
				return errs.InvalidInput("cli", "config", "--unset takes exactly one key")
			case list || len(args) == 0:
				for _, e := range cfg.List() {
					fmt.Fprintf(out, "%s=%s\n", e.Key, e.Value)
				}
				return nil
			case unset:
				return cfg.Unset(level, args[0])
			case len(args) == 2:
				return cfg.Set(level, args[0], args[1])
			}

			e, ok := cfg.Get(args[0])
			if !ok {
				return errs.InvalidInput("cli", "config", fmt.Sprintf("%s is not set", args[0]))
			}
			fmt.Fprintln(out, e.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Use the user-level config file")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List all effective values")
	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the key")

	return cmd
}

// loadConfig returns the merged config of the current repository. Outside
// a repository only --global works.
func loadConfig(global bool) (*config.Manager, error) {
	repo, err := findRepository()
	if err == nil {
		return repo.Config(), nil
	}
	if !global || !errs.IsCode(err, errs.CodeNotRepository) {
		return nil, err
	}

	cfg, err := config.NewManager(scpath.SourcePath(""))
	if err != nil {
		return nil, err
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}
