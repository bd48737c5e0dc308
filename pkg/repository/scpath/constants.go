package scpath

const (
	// MetaDir is the name of the repository metadata directory
	MetaDir = ".rgit"

	// ObjectsDir is the name of the objects directory
	ObjectsDir = "objects"

	// RefsDir is the name of the refs directory
	RefsDir = "refs"

	// HeadsDir is the name of the heads directory (branches)
	HeadsDir = "heads"

	// TagsDir is the name of the tags directory
	TagsDir = "tags"

	// IndexFile is the name of the staging index file
	IndexFile = "index"

	// ConfigFile is the name of the repository config file
	ConfigFile = "config"

	// HeadFile is the name of the HEAD file
	HeadFile = "HEAD"

	DescriptionFile = "description"
	CommitMsgFile   = "COMMIT_MSG"
	PackedRefsFile  = "packed-refs"
	HooksDir        = "hooks"
	InfoDir         = "info"
	LogsDir         = "logs"
	PackDir         = "pack"

	// IgnoreFile lives in the working tree root, not in MetaDir.
	IgnoreFile = ".rgitignore"
)
