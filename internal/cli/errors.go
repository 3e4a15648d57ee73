package cli

import (
	"errors"
	"fmt"
	"io"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// reportedError marks an error already written to stderr by writeErr.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// ReportError writes err to w unless a command already printed it.
// Cobra's own errors (unknown command, bad args, bad flags) are not printed yet.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var r reportedError
	if errors.As(err, &r) {
		return
	}
	fmt.Fprintln(w, "Error:", err.Error())
}
