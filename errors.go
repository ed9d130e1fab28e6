// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"log"

	"github.com/pkg/errors"
)

// Error returns the error status of the Manager, or an empty string if there
// is none.
func (m *Manager) Error() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

// Errored reports whether a prior computation left the Manager in an error
// state.
func (m *Manager) Errored() bool {
	return m.err != nil
}

// seterror records err as the current error of the Manager, chaining it with
// any error already pending, and returns a nil Node so call sites can write
// `return m.seterror(...)`.
func (m *Manager) seterror(err error) Node {
	if m.err != nil {
		m.err = errors.Wrap(err, m.err.Error())
		return nil
	}
	m.err = err
	if debugEnabled {
		log.Println(m.err)
	}
	return nil
}

// seterrorf is the formatted variant of seterror.
func (m *Manager) seterrorf(format string, a ...interface{}) Node {
	return m.seterror(errors.Errorf(format, a...))
}

// checkptr validates that n is a non-nil handle produced by this Manager.
// A node whose stored triple violates low != high is not a bad handle, it
// is DAG corruption: checkptr panics on it rather than returning an error,
// since ErrInvariantViolation is fatal and non-recoverable (spec.md §7).
func (m *Manager) checkptr(n Node) error {
	if n == nil {
		return ErrInvalidHandle
	}
	if *n < 0 || int(*n) >= len(m.nodes) {
		return ErrInvalidHandle
	}
	nd := m.nodes[*n]
	if *n > 1 && nd.low == -1 {
		return ErrInvalidHandle
	}
	if *n > 1 && nd.low == nd.high {
		panic(errors.Wrapf(ErrInvariantViolation, "node %d has low == high (%d)", *n, nd.low))
	}
	return nil
}
