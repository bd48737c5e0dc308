package sourcerepo

import (
	"github.com/utkarsh5026/rgit/pkg/config"
	"github.com/utkarsh5026/rgit/pkg/repository/scpath"
	"github.com/utkarsh5026/rgit/pkg/store"
)

// Repository is what commands need from an opened repository: where the
// working tree and metadata live, the object store and the merged config.
type Repository interface {
	// WorkingDirectory returns the path to the repository's working directory
	WorkingDirectory() scpath.RepositoryPath

	// SourceDirectory returns the path to the .rgit directory
	SourceDirectory() scpath.SourcePath

	// ObjectStore returns the object store for this repository
	ObjectStore() store.ObjectStore

	// Config returns the loaded configuration
	Config() *config.Manager
}

var _ Repository = (*SourceRepository)(nil)
