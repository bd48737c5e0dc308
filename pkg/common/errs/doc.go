// Package errs provides the error type shared by every rgit package.
//
// Every failure the storage core can report has a kind, expressed as a
// Code on *Error. Callers branch on the kind with errors.Is against the
// package sentinels:
//
//	if errors.Is(err, errs.ErrNothingStaged) {
//	    // nothing to commit
//	}
//
// Packages construct errors with New, Wrap, WrapWithCode or the per-kind
// helpers, always naming themselves in the Package field so messages read
// "[store][STORAGE_IO]: put: rename: ...".
package errs
