// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"

	"github.com/pkg/errors"
)

// number of bytes used to compute a fast hash of a (var, low, high) triple.
const huddsize = (2*(32<<(^uint(0)>>32&1)) + 32) / 8 // 12 (32 bits) or 20 (64 bits)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of variables (and levels) in the DAG, a
// 21-bit value; it is also the VarID carried by the terminals (TOP/BOTTOM).
// GC marks are kept in the reference counter (markBit), not next to the
// variable. We always use int32 to avoid problems when we change
// architecture.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list. It is
// equal to 1023 (10 bits).
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes.
const _DEFAULTMAXNODEINC int = 1 << 20

// Sentinel errors identifying the kinds of failures listed in the package's
// error taxonomy. Use errors.Is / errors.Cause (github.com/pkg/errors) to
// discriminate at the call site.
var (
	// ErrInvalidHandle is returned when a NodeID (or Node) passed to an
	// operation does not belong to the Manager it was passed to.
	ErrInvalidHandle = errors.New("invalid handle: node does not belong to this manager")

	// ErrInvariantViolation signals internal corruption of the DAG (e.g. a
	// reachable node with low == high). It is fatal and non-recoverable.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNoBdd is returned by an operation that queries a BDD before any
	// BDD was ever attached to the Manager.
	ErrNoBdd = errors.New("no bdd attached to manager")

	// ErrDeadlineExceeded is returned by RunDVO when its context has
	// expired at one of the checks made between variable sifts or between
	// sweeps; the order is left as the last completed sift settled it.
	ErrDeadlineExceeded = errors.New("dvo deadline exceeded")

	// ErrIoError wraps failures at the serializer/deserializer transport
	// layer.
	ErrIoError = errors.New("io error")

	errMemory      = errors.New("unable to free memory or resize manager")
	errResize      = errors.New("should cache resize") // when gc and then noderesize
	errReset       = errors.New("should cache reset")  // when gc only, without resizing
	errInvalidCube = errors.New("node is not a literal cube")
)

// ParseSubKind enumerates the malformed-input cases a ParseError can carry.
type ParseSubKind int

const (
	// SubKindInvalidNumber: a token that should be an integer isn't.
	SubKindInvalidNumber ParseSubKind = iota
	// SubKindMissingHeader: the problem line (or native header) is absent.
	SubKindMissingHeader
	// SubKindDuplicateHeader: the problem/header line appears more than once.
	SubKindDuplicateHeader
	// SubKindNonAscendingVariable: a variable/node id is referenced before
	// its declaration (forward reference) in a format that forbids it.
	SubKindNonAscendingVariable
	// SubKindBadHeaderKey: a header `key = value` line uses an unknown key.
	SubKindBadHeaderKey
)

func (k ParseSubKind) String() string {
	switch k {
	case SubKindInvalidNumber:
		return "invalid-number"
	case SubKindMissingHeader:
		return "missing-header"
	case SubKindDuplicateHeader:
		return "duplicate-header"
	case SubKindNonAscendingVariable:
		return "non-ascending-variable"
	case SubKindBadHeaderKey:
		return "bad-header-key"
	default:
		return "unknown"
	}
}

// ParseError describes a malformed input file: invalid number, missing or
// duplicate header, non-ascending variables, or a bad header key.
type ParseError struct {
	SubKind ParseSubKind
	Line    int
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error (%s) at line %d: %s", e.SubKind, e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error (%s): %s", e.SubKind, e.Msg)
}
