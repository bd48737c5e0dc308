package errs

import (
	"errors"
	"strings"
)

// Error is the base error type shared by every package in the module.
//
// Each error carries the package it originated in, a machine-readable
// Code naming its kind, the operation that failed and the wrapped cause.
// Two errors compare equal under errors.Is when their codes match, so
// callers test for a kind with errors.Is(err, errs.ErrObjectNotFound)
// regardless of which package produced it.
type Error struct {
	// Package identifies the originating package (e.g. "store", "index").
	Package string

	// Code is the error kind. See the Code* constants.
	Code string

	// Op is the operation being performed (e.g. "put", "load").
	Op string

	// Message is a short human-readable detail.
	Message string

	// Err is the wrapped cause. Nil for leaf errors.
	Err error

	// Context holds optional structured metadata, set with WithContext.
	Context map[string]any
}

// Error implements the error interface.
// Format: [package][code]: op: message: cause
func (e *Error) Error() string {
	var parts []string

	var prefix strings.Builder
	if e.Package != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Package)
		prefix.WriteString("]")
	}
	if e.Code != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Code)
		prefix.WriteString("]")
	}
	if prefix.Len() > 0 {
		parts = append(parts, prefix.String())
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, ": ")
	if e.Err != nil {
		if result != "" {
			result += ": " + e.Err.Error()
		} else {
			result = e.Err.Error()
		}
	}
	return result
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on a non-empty code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext attaches a key/value pair and returns the error for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetContext returns a value previously attached with WithContext.
func (e *Error) GetContext(key string) any {
	if e.Context == nil {
		return nil
	}
	return e.Context[key]
}

// New creates an error with all fields set.
func New(pkg, code, op, message string, err error) *Error {
	return &Error{
		Package: pkg,
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Wrap adds package and operation context to err without assigning a kind.
// Returns nil if err is nil.
func Wrap(err error, pkg, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Package: pkg, Op: op, Err: err}
}

// WrapWithCode wraps err and assigns it a kind.
// Returns nil if err is nil.
func WrapWithCode(err error, pkg, code, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Package: pkg, Code: code, Op: op, Err: err}
}

// Error kinds.
const (
	// CodeStorageIO is a filesystem failure while reading or writing an
	// object, the index or another metadata file.
	CodeStorageIO = "STORAGE_IO"

	// CodeObjectNotFound means no object is stored under the digest.
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// CodeObjectCorrupt means a stored object could not be decoded or its
	// content no longer hashes to its name.
	CodeObjectCorrupt = "OBJECT_CORRUPT"

	// CodeIndexCorrupt means the staging index could not be parsed.
	CodeIndexCorrupt = "INDEX_CORRUPT"

	// CodeStaleStagingEntry means a staged path no longer resolves to the
	// content that was staged.
	CodeStaleStagingEntry = "STALE_STAGING_ENTRY"

	// CodeEmptyMessage rejects a commit without a message.
	CodeEmptyMessage = "EMPTY_MESSAGE"

	// CodeNothingStaged rejects a commit with an empty staging index.
	CodeNothingStaged = "NOTHING_STAGED"

	// CodeInvalidInput covers malformed arguments: bad digests, paths,
	// identities.
	CodeInvalidInput = "INVALID_INPUT"

	// CodeNotRepository means no metadata directory was found.
	CodeNotRepository = "NOT_REPOSITORY"

	// CodeAlreadyExists means init found an existing repository.
	CodeAlreadyExists = "ALREADY_EXISTS"
)

// Sentinels for errors.Is. They carry only a code.
var (
	ErrStorageIO         = &Error{Code: CodeStorageIO}
	ErrObjectNotFound    = &Error{Code: CodeObjectNotFound}
	ErrObjectCorrupt     = &Error{Code: CodeObjectCorrupt}
	ErrIndexCorrupt      = &Error{Code: CodeIndexCorrupt}
	ErrStaleStagingEntry = &Error{Code: CodeStaleStagingEntry}
	ErrEmptyMessage      = &Error{Code: CodeEmptyMessage}
	ErrNothingStaged     = &Error{Code: CodeNothingStaged}
	ErrInvalidInput      = &Error{Code: CodeInvalidInput}
	ErrNotRepository     = &Error{Code: CodeNotRepository}
	ErrAlreadyExists     = &Error{Code: CodeAlreadyExists}
)

// StorageIO wraps a filesystem error.
func StorageIO(pkg, op string, err error) error {
	return WrapWithCode(err, pkg, CodeStorageIO, op)
}

// InvalidInput builds a leaf error describing a bad argument.
func InvalidInput(pkg, op, message string) *Error {
	return New(pkg, CodeInvalidInput, op, message, nil)
}

// IsCode reports whether err, or anything it wraps, has the given code.
func IsCode(err error, code string) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		if e.Err == nil {
			return false
		}
		err = e.Err
	}
	return false
}

// GetCode returns the first non-empty code in err's chain.
func GetCode(err error) string {
	var e *Error
	for errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		if e.Err == nil {
			return ""
		}
		err = e.Err
	}
	return ""
}

// GetOp returns the operation of the outermost Error in err's chain.
func GetOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
