package refs

// Common reference paths
const (
	// RefHeads is the base path for branch references
	RefHeads RefPath = "refs/heads"

	// RefTags is the base path for tag references
	RefTags RefPath = "refs/tags"

	// RefHEAD is the HEAD reference
	RefHEAD RefPath = "HEAD"

	// DefaultBranch is the branch HEAD points at in a new repository.
	DefaultBranch = "main"
)
