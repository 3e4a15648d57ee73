package store

import (
	"errors"
	"fmt"
)

// ErrNoState reports that nothing has been persisted yet.
var ErrNoState = errors.New("no persisted state")

// LoadError is a failure to read back persisted state (I/O, malformed JSON, schema violation).
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// WriteError is a failure to persist a snapshot.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
