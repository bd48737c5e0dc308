// Package objects defines the content address used throughout rgit.
//
// Every stored object (file content, tree, commit) is named by the SHA-1
// of its exact bytes. The store does not wrap content in a type header, so
// a file's digest equals `sha1sum` of the file. Trees and commits are
// plain text; see the tree and commit subpackages for their layout.
package objects
