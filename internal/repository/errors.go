package repository

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when an update or lookup targets a missing row.
	ErrNotFound = errors.New("invoice not found")
	// ErrStorage marks failures of the backing store (connectivity, constraints).
	ErrStorage = errors.New("storage failure")
)

// storageError carries the failed operation and the driver error.
type storageError struct {
	op  string
	err error
}

func (e *storageError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storageError) Unwrap() error { return e.err }

func (e *storageError) Is(target error) bool { return target == ErrStorage }

// StorageError wraps a driver error with the operation that failed. The result
// matches ErrStorage and still unwraps to the driver error.
func StorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	return &storageError{op: op, err: errors.WithStack(err)}
}
