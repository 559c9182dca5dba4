// Package errors provides custom error types for the dualchat store and importer.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrNotepadNotFound      = errors.New("notepad not found")
	ErrNoConversations      = errors.New("no conversations found")
	ErrImportFailed         = errors.New("import failed")
)

// ImportError represents a user-facing import failure: the input was not
// valid JSON or yielded zero usable records. The collection is left
// unchanged when it is returned.
type ImportError struct {
	Message string
}

func (e *ImportError) Error() string {
	if e.Message == "" {
		return "import failed"
	}
	return fmt.Sprintf("import failed: %s", e.Message)
}

// Is allows comparison with the ErrImportFailed sentinel
func (e *ImportError) Is(target error) bool {
	if target == ErrImportFailed {
		return true
	}
	_, ok := target.(*ImportError)
	return ok
}

// NewImportError creates a new ImportError
func NewImportError(message string) *ImportError {
	return &ImportError{Message: message}
}

// PersistError represents a failed write to the persistence boundary.
// It is surfaced as a non-fatal warning; in-memory state stays authoritative.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// NewPersistError creates a new PersistError
func NewPersistError(key string, err error) *PersistError {
	return &PersistError{Key: key, Err: err}
}
