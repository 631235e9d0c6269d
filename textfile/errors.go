package textfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the target file does not exist
	ErrNotFound = errors.New("file not found")

	// ErrNotReadable is returned when the target file exists but cannot be read
	ErrNotReadable = errors.New("file not readable")

	// ErrDecode is returned when file content cannot be interpreted as text
	ErrDecode = errors.New("file content is not text")

	// ErrInvalidPattern is returned when a search pattern does not compile
	ErrInvalidPattern = errors.New("invalid search pattern")

	// ErrEditConflict is returned when an edit plan references lines that do
	// not exist or contains operations that overlap
	ErrEditConflict = errors.New("edit conflict")

	// ErrWrite is returned when a commit cannot complete
	ErrWrite = errors.New("write failed")
)

// FileError wraps a file operation failure with the path and operation name
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError
func NewFileError(op, path string, err error) *FileError {
	return &FileError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// ConflictError reports why an edit plan was rejected. It wraps
// ErrEditConflict so callers can test with errors.Is.
type ConflictError struct {
	Op     string
	Line   int
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s at line %d: %s", ErrEditConflict, e.Op, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrEditConflict, e.Op, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrEditConflict
}

// NewConflictError creates a new ConflictError
func NewConflictError(op string, line int, reason string) *ConflictError {
	return &ConflictError{
		Op:     op,
		Line:   line,
		Reason: reason,
	}
}

// IsNotFound checks if an error indicates a missing file
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotReadable checks if an error indicates an unreadable file
func IsNotReadable(err error) bool {
	return errors.Is(err, ErrNotReadable)
}

// IsDecodeError checks if an error indicates non-text content
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsInvalidPattern checks if an error indicates a bad search pattern
func IsInvalidPattern(err error) bool {
	return errors.Is(err, ErrInvalidPattern)
}

// IsEditConflict checks if an error indicates a rejected edit plan
func IsEditConflict(err error) bool {
	return errors.Is(err, ErrEditConflict)
}

// IsWriteError checks if an error indicates a failed commit
func IsWriteError(err error) bool {
	return errors.Is(err, ErrWrite)
}
