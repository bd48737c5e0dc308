package commitmanager

import (
	"github.com/utkarsh5026/rgit/pkg/index"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
)

// directoryNode is one directory of the snapshot being built.
//
//   - files: staged files directly in this directory (name -> entry)
//   - subdirs: child directories (name -> node)
//
// Nodes are created on demand from flat staged paths; a directory exists
// only because some file beneath it is staged.
type directoryNode struct {
	name    string
	path    scpath.RelativePath
	files   map[string]index.Entry
	subdirs map[string]*directoryNode
}

// newDirectoryNode creates a new directory node with initialized maps
func newDirectoryNode(name string, path scpath.RelativePath) *directoryNode {
	return &directoryNode{
		name:    name,
		path:    path,
		files:   make(map[string]index.Entry),
		subdirs: make(map[string]*directoryNode),
	}
}

// addEntry walks the entry's path components from this node, creating
// intermediate directories, and files the entry in the last one.
//
// For "src/utils/helper.go" the root gains subdir "src", which gains
// subdir "utils", which gets file "helper.go".
func (dn *directoryNode) addEntry(entry index.Entry) {
	node := dn
	parts := entry.Path.Components()
	for _, part := range parts[:len(parts)-1] {
		node = node.getOrCreateSubdir(part)
	}
	node.files[parts[len(parts)-1]] = entry
}

// getOrCreateSubdir gets an existing subdirectory or creates a new one
func (dn *directoryNode) getOrCreateSubdir(name string) *directoryNode {
	if subdir, exists := dn.subdirs[name]; exists {
		return subdir
	}

	subdir := newDirectoryNode(name, dn.path.Join(name))
	dn.subdirs[name] = subdir
	return subdir
}
