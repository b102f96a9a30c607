package tableservice

import (
	"errors"
	"fmt"
)

// Common table service error values
var (
	ErrNoTableBound   = errors.New("no table bound for operation")
	ErrMissingKey     = errors.New("missing key")
	ErrMissingItem    = errors.New("missing item")
	ErrInvalidKey     = errors.New("invalid key")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// TableError carries the operation and table involved in a failed call.
type TableError struct {
	Op    string // Operation that failed (e.g., "Put", "Scan")
	Table string // Table involved, empty for the unbound handle
	Err   error  // Underlying error
}

func (e *TableError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("table %s operation failed for table '%s': %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("table %s operation failed: %v", e.Op, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// NewTableError creates a new TableError
func NewTableError(op, table string, err error) *TableError {
	return &TableError{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// IsNoTableBound returns true if the error indicates a storage call
// against the unbound handle.
func IsNoTableBound(err error) bool {
	return errors.Is(err, ErrNoTableBound)
}

// IsMissingArgument returns true if the error indicates a payload that
// lacks the Item or Key the backend needed.
func IsMissingArgument(err error) bool {
	return errors.Is(err, ErrMissingKey) || errors.Is(err, ErrMissingItem)
}
