package workdir

import (
	"fmt"

	"github.com/utkarsh5026/rgit/pkg/common/errs"
	"github.com/utkarsh5026/rgit/pkg/objects"
	"github.com/utkarsh5026/rgit/pkg/objects/commit"
	"github.com/utkarsh5026/rgit/pkg/objects/tree"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// FileMap maps every file in a snapshot to its content digest.
type FileMap = map[scpath.RelativePath]objects.Digest

// commitFiles flattens the tree of a commit.
func (m *Manager) commitFiles(digest objects.Digest) (FileMap, error) {
	data, err := m.store.Get(digest)
	if err != nil {
		return nil, err
	}
	c, err := commit.ParseCommit(data)
	if err != nil {
		return nil, err
	}

	files := make(FileMap)
	if err := m.treeFiles(c.Tree, "", files); err != nil {
		return nil, err
	}
	return files, nil
}

// treeFiles recursively walks a tree object and collects all files.
func (m *Manager) treeFiles(digest objects.Digest, base scpath.RelativePath, files FileMap) error {
	data, err := m.store.Get(digest)
	if err != nil {
		return errs.Wrap(err, pkgName, fmt.Sprintf("read tree %s", digest.Short()))
	}
	t, err := tree.ParseTree(data)
	if err != nil {
		return err
	}

	for _, e := range t.Entries() {
		path := base.Join(e.Name())
		if e.IsDirectory() {
			if err := m.treeFiles(e.Digest(), path, files); err != nil {
				return err
			}
			continue
		}
		files[path] = e.Digest()
	}
	return nil
}
