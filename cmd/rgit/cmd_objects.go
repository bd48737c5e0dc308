package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/objects/tree"
	"github.com/utkarsh5026/rgit/pkg/store"
)

func newCatFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file <digest>",
		Short: "Print the stored bytes of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}
			digest, err := parseDigestArg(args[0])
			if err != nil {
				return err
			}

			data, err := repo.ObjectStore().Get(digest)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	return cmd
}

func newLsTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-tree <digest>",
		Short: "List the entries of a tree",
		Long: `List the entries of a tree object. A commit digest lists the commit's
root tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}
			digest, err := parseDigestArg(args[0])
			if err != nil {
				return err
			}

			t, err := readTreeish(repo.ObjectStore(), digest)
			if err != nil {
				return err
			}
			for _, e := range t.Entries() {
				fmt.Fprint(cmd.OutOrStdout(), e.Serialize())
			}
			return nil
		},
	}

	return cmd
}

// readTreeish decodes digest as a tree, falling back to the root tree of
// a commit.
func readTreeish(s store.ObjectStore, digest objects.Digest) (*tree.Tree, error) {
	data, err := s.Get(digest)
	if err != nil {
		return nil, err
	}

	if c, err := commit.ParseCommit(data); err == nil {
		if data, err = s.Get(c.Tree); err != nil {
			return nil, err
		}
	}

	t, err := tree.ParseTree(data)
	if err != nil {
		return nil, errs.New("cli", errs.CodeInvalidInput, "ls-tree",
			fmt.Sprintf("%s is not a tree or commit", digest.Short()), err)
	}
	return t, nil
}

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>",
		Short: "Compute the digest of a file",
		Long: `Print the content address of a file. With -w the content is also
written to the object store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errs.StorageIO("cli", "hash-object", err)
			}

			digest := objects.ComputeDigest(data)
			if write {
				repo, err := findRepository()
				if err != nil {
					return err
				}
				if digest, err = repo.ObjectStore().Put(data); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the object into the object store")

	return cmd
}

func newCountObjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count-objects",
		Short: "Count stored objects and their disk usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			count, size, err := repo.FileStore().Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d objects, %d kilobytes (%s)\n",
				count, (size+1023)/1024, repo.FileStore().Compression())
			return nil
		},
	}

	return cmd
}
