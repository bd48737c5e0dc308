package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/repository/sourcerepo"
)

// findRepository opens the repository containing the working directory.
func findRepository() (*sourcerepo.SourceRepository, error) {
	return sourcerepo.FindRepository(".")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseDigestArg(arg string) (objects.Digest, error) {
	d, err := objects.ParseDigest(arg)
	if err != nil {
		return "", errs.Wrap(err, "cli", fmt.Sprintf("parse digest %q", arg))
	}
	return d, nil
}

func printPaths(w io.Writer, status ui.FileStatus, paths []scpath.RelativePath) {
	for _, p := range paths {
		fmt.Fprintln(w, ui.FormatFileStatus(status, p.String()))
	}
}
