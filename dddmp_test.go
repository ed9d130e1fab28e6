// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const dddmpSample = `.ver DDDMP-2.0
.nnodes 1
.nvars 2
.permids 0 1
.rootids 3
.nodes
3 T 0 -1 1
.end
`

func TestReadDDDMP(t *testing.T) {
	m, roots, err := ReadDDDMP(strings.NewReader(dddmpSample))
	if err != nil {
		t.Fatalf("ReadDDDMP: %s", err)
	}
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if got := m.Satcount(roots[0]).Int64(); got != 2 {
		t.Errorf("sat_count = %d, want 2", got)
	}
}

// TestReadDDDMPEmptyRootsIsErrNoBdd checks that a well-formed .dddmp file
// declaring zero roots is reported as ErrNoBdd, not a parse error.
func TestReadDDDMPEmptyRootsIsErrNoBdd(t *testing.T) {
	sample := `.ver DDDMP-2.0
.nnodes 0
.nvars 1
.permids 0
.rootids
.nodes
.end
`
	_, _, err := ReadDDDMP(strings.NewReader(sample))
	if errors.Cause(err) != ErrNoBdd {
		t.Fatalf("got error %v, want ErrNoBdd", err)
	}
}

func TestReadDDDMPMissingRootidsHeaderIsParseError(t *testing.T) {
	sample := `.ver DDDMP-2.0
.nnodes 0
.nvars 1
.permids 0
.nodes
.end
`
	_, _, err := ReadDDDMP(strings.NewReader(sample))
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got error of type %T, want *ParseError", err)
	}
}
