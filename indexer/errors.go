package indexer

import (
	"errors"
	"fmt"

	"github.com/ncobase/searchsync/ecode"
)

var (
	// ErrMissingArgument is returned when a required command field is absent.
	ErrMissingArgument = errors.New("missing argument")
	// ErrMissingType is returned when neither the command nor its data names a type.
	ErrMissingType = fmt.Errorf("%w: %s", ErrMissingArgument, ecode.FieldIsRequired("type"))
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrReconcile matches every *ReconcileError.
	ErrReconcile = errors.New("reconciliation failure")
	// ErrIndexMirror matches every *MirrorError.
	ErrIndexMirror = errors.New("index mirror failure")
)

func missingArgument(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingArgument, ecode.FieldIsRequired(name))
}

// TransportError wraps a search or store client failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", ecode.Failed(e.Op), e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// ReconcileError reports an authoritative lookup that failed during a search.
// No partial result accompanies it.
type ReconcileError struct {
	Type string
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("%s for type %q: %v", ecode.Failed("reconcile"), e.Type, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

func (e *ReconcileError) Is(target error) bool { return target == ErrReconcile }

// MirrorError reports an index write that failed after the authoritative
// store already changed. Fatal is set for removals, where the two stores
// are left out of sync.
type MirrorError struct {
	Op    string
	Type  string
	ID    string
	Fatal bool
	Err   error
}

func (e *MirrorError) Error() string {
	kind := "non-fatal"
	if e.Fatal {
		kind = "fatal"
	}
	return fmt.Sprintf("%s index mirror %s for %s %s: %v", kind, e.Op, e.Type, e.ID, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

func (e *MirrorError) Is(target error) bool { return target == ErrIndexMirror }
