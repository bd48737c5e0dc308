// Package index implements the staging area: the set of files that the
// next commit will snapshot.
//
// The set lives in .rgit/index as sorted "<digest> <path>" lines. It is
// loaded, mutated in memory and persisted atomically; a successful commit
// clears it.
package index
