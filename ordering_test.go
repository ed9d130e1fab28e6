// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"testing"

	"github.com/pkg/errors"
)

// pigeonhole builds the standard php(pigeons, holes) unsatisfiable CNF: each
// pigeon occupies at least one hole, and no hole holds two pigeons. Variable
// v(p,h) = p*holes + h.
func pigeonhole(pigeons, holes int) (int, []Clause) {
	v := func(p, h int) int { return p*holes + h + 1 }
	varnum := pigeons * holes
	var clauses []Clause
	for p := 0; p < pigeons; p++ {
		c := make(Clause, 0, holes)
		for h := 0; h < holes; h++ {
			c = append(c, v(p, h))
		}
		clauses = append(clauses, c)
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, Clause{-v(p1, h), -v(p2, h)})
			}
		}
	}
	return varnum, clauses
}

// TestS4Pigeonhole checks scenario S4: php(3,2) is unsatisfiable, and a sift
// sweep never increases the node count.
func TestS4Pigeonhole(t *testing.T) {
	varnum, clauses := pigeonhole(3, 2)
	m := newTestManager(t, varnum)
	f, err := FromCNF(m, clauses)
	if err != nil {
		t.Fatalf("FromCNF: %s", err)
	}
	if m.Satisfiable(f) {
		t.Errorf("php(3,2) reported satisfiable")
	}
	if m.Satcount(f).Sign() != 0 {
		t.Errorf("sat_count(php(3,2)) should be 0")
	}

	before := m.NodeCount(f)
	if err := m.Sift(); err != nil {
		t.Fatalf("Sift: %s", err)
	}
	after := m.NodeCount(f)
	if after > before {
		t.Errorf("node count grew after a sift sweep: %d -> %d", before, after)
	}
}

// TestDVOPreservesSatcount checks property 4: sat_count is invariant under
// DVO for an arbitrary schedule.
func TestDVOPreservesSatcount(t *testing.T) {
	m := newTestManager(t, 6)
	a, b, c, d, e, g := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2), m.Ithvar(3), m.Ithvar(4), m.Ithvar(5)
	formula := m.Or(m.And(a, b), m.And(c, m.Not(d)))
	formula = m.Xor(formula, m.And(e, g))

	before := m.Satcount(formula)
	if err := m.Sift(); err != nil {
		t.Fatalf("Sift: %s", err)
	}
	after := m.Satcount(formula)
	if before.Cmp(after) != 0 {
		t.Errorf("sat_count changed across DVO: %s -> %s", before, after)
	}
	canonical(t, m)
	orderRespected(t, m)
}

// TestS6DoubleSwapIsIdentity checks scenario S6: swapping two adjacent
// levels twice returns every surviving node to its original triple.
func TestS6DoubleSwapIsIdentity(t *testing.T) {
	m := newTestManager(t, 4)
	a, b, c, d := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2), m.Ithvar(3)
	f := m.Or(m.And(a, b), m.And(c, d))

	before := map[NodeID]nodeKey{}
	for id := 2; id < len(m.nodes); id++ {
		if m.nodes[id].low != freeSlot {
			before[NodeID(id)] = nodeKey{m.nodes[id].variable, m.nodes[id].low, m.nodes[id].high}
		}
	}

	if err := m.swapLevel(0); err != nil {
		t.Fatalf("swapLevel(0): %s", err)
	}
	if err := m.swapLevel(0); err != nil {
		t.Fatalf("swapLevel(0) again: %s", err)
	}

	for id, key := range before {
		if m.nodes[id].low == freeSlot {
			continue // reclaimed as garbage, allowed by "modulo unreachable garbage"
		}
		got := nodeKey{m.nodes[id].variable, m.nodes[id].low, m.nodes[id].high}
		if got != key {
			t.Errorf("node %d changed after a double swap: %+v -> %+v", id, key, got)
		}
	}
	if !m.Equal(m.Or(m.And(a, b), m.And(c, d)), f) {
		t.Errorf("formula value changed after a double swap")
	}
}

// TestSwapLevelLeavesLiteralNodesUntouched checks the fast path of
// swapLevel: every Ithvar/NIthvar node has terminal children, so a swap at
// its level must leave its (var,low,high) triple exactly as it was and must
// never turn it into a low==high node (it is pinned at _MAXREFCOUNT and
// would never be reclaimed by gc otherwise).
func TestSwapLevelLeavesLiteralNodesUntouched(t *testing.T) {
	m := newTestManager(t, 3)
	x0, nx0 := m.Ithvar(0), m.NIthvar(0)

	before := nodeKey{m.nodes[*x0].variable, m.nodes[*x0].low, m.nodes[*x0].high}
	beforeN := nodeKey{m.nodes[*nx0].variable, m.nodes[*nx0].low, m.nodes[*nx0].high}

	if err := m.swapLevel(0); err != nil {
		t.Fatalf("swapLevel(0): %s", err)
	}

	after := nodeKey{m.nodes[*x0].variable, m.nodes[*x0].low, m.nodes[*x0].high}
	afterN := nodeKey{m.nodes[*nx0].variable, m.nodes[*nx0].low, m.nodes[*nx0].high}

	if after.low == after.high {
		t.Fatalf("Ithvar(0) became a low==high node after a swap: %+v", after)
	}
	if after != before {
		t.Errorf("Ithvar(0) triple changed after a swap: %+v -> %+v", before, after)
	}
	if afterN != beforeN {
		t.Errorf("NIthvar(0) triple changed after a swap: %+v -> %+v", beforeN, afterN)
	}
	canonical(t, m)
}

// TestCheckptrPanicsOnInvariantViolation checks that a low==high node
// (which makenode's redundancy rule should never let arise, but which
// could still reach checkptr through DAG corruption) is treated as fatal,
// not a plain invalid handle: ErrInvariantViolation must be recoverable
// from the panic.
func TestCheckptrPanicsOnInvariantViolation(t *testing.T) {
	m := newTestManager(t, 2)
	a, b := m.Ithvar(0), m.Ithvar(1)

	// Build a fresh, otherwise-valid node, then corrupt it directly: this
	// is the only way to observe the state checkptr defends against, since
	// makenode itself never produces it.
	fresh, err := m.makenode(1, *a, *b)
	if err != nil {
		t.Fatalf("makenode: %s", err)
	}
	m.nodes[fresh].high = m.nodes[fresh].low
	corrupted := m.retnode(fresh)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("checkptr did not panic on a low==high node")
		}
		if err, ok := r.(error); !ok || errors.Cause(err) != ErrInvariantViolation {
			t.Errorf("recovered panic %v does not wrap ErrInvariantViolation", r)
		}
	}()
	m.NodeCount(corrupted)
}
