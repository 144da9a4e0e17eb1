package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// StorageOp classifies where a storage failure happened.
type StorageOp string

const (
	StorageRead  StorageOp = "read"
	StorageWrite StorageOp = "write"
)

// NetworkError wraps a remote fetch failure. Transient errors (timeouts,
// 5xx) are worth retrying; permanent ones (4xx, malformed URL) are not.
type NetworkError struct {
	Transient bool
	Err       error
}

func (e *NetworkError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("network error (%s): %v", kind, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a NetworkError marked transient.
func IsTransient(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Transient
}

// StorageError wraps a blob or metadata store failure.
type StorageError struct {
	Op  StorageOp
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s error: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MigrationError reports a failed legacy-layout upgrade during an update
// check. The newly persisted metadata document is not rolled back.
type MigrationError struct {
	Err error
}

func (e *MigrationError) Error() string { return fmt.Sprintf("migration error: %v", e.Err) }

func (e *MigrationError) Unwrap() error { return e.Err }

// DecodeError reports a malformed metadata document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode error: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
