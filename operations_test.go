// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/rand"
	"testing"
)

func newTestManager(t *testing.T, varnum int) *Manager {
	t.Helper()
	m, err := New(varnum, nil)
	if err != nil {
		t.Fatalf("New(%d): %s", varnum, err)
	}
	return m
}

// canonical checks property 1 (spec.md §8): no two live nodes share a
// (var, low, high) triple, and no live node has low == high.
func canonical(t *testing.T, m *Manager) {
	t.Helper()
	seen := map[nodeKey]NodeID{}
	for id := 2; id < len(m.nodes); id++ {
		nd := m.nodes[id]
		if nd.low == freeSlot {
			continue
		}
		if nd.low == nd.high {
			t.Errorf("node %d has low == high == %d (should have been eliminated)", id, nd.low)
		}
		key := nodeKey{nd.variable, nd.low, nd.high}
		if other, ok := seen[key]; ok {
			t.Errorf("nodes %d and %d share the triple %v", other, id, key)
		}
		seen[key] = NodeID(id)
	}
}

// orderRespected checks property 2: every edge goes from a shallower level
// to a strictly deeper one.
func orderRespected(t *testing.T, m *Manager) {
	t.Helper()
	for id := 2; id < len(m.nodes); id++ {
		nd := m.nodes[id]
		if nd.low == freeSlot {
			continue
		}
		lvl := m.level(NodeID(id))
		for _, child := range []NodeID{nd.low, nd.high} {
			if child < 2 {
				continue
			}
			if lvl >= m.level(child) {
				t.Errorf("node %d (level %d) has child %d at level %d: order violated", id, lvl, child, m.level(child))
			}
		}
	}
}

func TestBooleanLaws(t *testing.T) {
	m := newTestManager(t, 4)
	a := m.Ithvar(0)
	b := m.Ithvar(1)
	c := m.Ithvar(2)

	if !m.Equal(m.And(a, b), m.And(b, a)) {
		t.Errorf("and(a,b) != and(b,a)")
	}
	if !m.Equal(m.Or(a, m.Not(a)), m.True()) {
		t.Errorf("or(a,not(a)) != True")
	}
	if !m.Equal(m.And(a, m.Not(a)), m.False()) {
		t.Errorf("and(a,not(a)) != False")
	}
	if !m.Equal(m.Not(m.Not(a)), a) {
		t.Errorf("not(not(a)) != a")
	}

	ite := m.Ite(a, b, c)
	expanded := m.Or(m.And(a, b), m.And(m.Not(a), c))
	if !m.Equal(ite, expanded) {
		t.Errorf("ite(f,g,h) != or(and(f,g), and(not(f),h))")
	}

	canonical(t, m)
	orderRespected(t, m)
}

func TestBooleanLawsRandomized(t *testing.T) {
	m := newTestManager(t, 6)
	rng := rand.New(rand.NewSource(1))
	vars := make([]Node, 6)
	for i := range vars {
		vars[i] = m.Ithvar(i)
	}

	randomFormula := func() Node {
		f := m.From(rng.Intn(2) == 0)
		for i := 0; i < 10; i++ {
			v := vars[rng.Intn(len(vars))]
			if rng.Intn(2) == 0 {
				v = m.Not(v)
			}
			switch rng.Intn(3) {
			case 0:
				f = m.And(f, v)
			case 1:
				f = m.Or(f, v)
			default:
				f = m.Xor(f, v)
			}
		}
		return f
	}

	for i := 0; i < 50; i++ {
		f := randomFormula()
		g := randomFormula()
		if !m.Equal(m.And(f, g), m.And(g, f)) {
			t.Fatalf("and is not commutative on iteration %d", i)
		}
		if !m.Equal(m.Or(f, g), m.Or(g, f)) {
			t.Fatalf("or is not commutative on iteration %d", i)
		}
		if !m.Equal(m.Not(m.Not(f)), f) {
			t.Fatalf("not is not involutive on iteration %d", i)
		}
	}
	canonical(t, m)
	orderRespected(t, m)
}

// TestS1 checks scenario S1: (x1 v x2) & (!x1 v x2), sat_count = 2,
// node_count = 2 (one decision on x2 alone suffices).
func TestS1(t *testing.T) {
	m := newTestManager(t, 2)
	x1, x2 := m.Ithvar(0), m.Ithvar(1)
	nx1 := m.Not(x1)

	f := m.And(m.Or(x1, x2), m.Or(nx1, x2))
	if got := m.Satcount(f).Int64(); got != 2 {
		t.Errorf("sat_count = %d, want 2", got)
	}
	if got := m.NodeCount(f); got != 2 {
		t.Errorf("node_count = %d, want 2", got)
	}
	if !m.Equal(f, x2) {
		t.Errorf("(x1 v x2) & (!x1 v x2) should reduce to the single node x2")
	}
}

// TestS2 checks scenario S2: x1 & !x1 == ZERO, unsatisfiable.
func TestS2(t *testing.T) {
	m := newTestManager(t, 1)
	x1 := m.Ithvar(0)
	f := m.And(x1, m.Not(x1))
	if !m.Equal(f, m.False()) {
		t.Errorf("x1 & !x1 should equal False")
	}
	if m.Satcount(f).Sign() != 0 {
		t.Errorf("sat_count(x1 & !x1) should be 0")
	}
	if m.Satisfiable(f) {
		t.Errorf("x1 & !x1 should be unsatisfiable")
	}
}

// TestS3 checks scenario S3: an empty CNF over 3 vars is ONE, sat_count = 8.
func TestS3(t *testing.T) {
	m := newTestManager(t, 3)
	f, err := FromCNF(m, nil)
	if err != nil {
		t.Fatalf("FromCNF(nil): %s", err)
	}
	if !m.Equal(f, m.True()) {
		t.Errorf("empty CNF should build to True")
	}
	if got := m.Satcount(f).Int64(); got != 8 {
		t.Errorf("sat_count = %d, want 8", got)
	}
}

func TestRestrict(t *testing.T) {
	m := newTestManager(t, 3)
	a, b, c := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(a, b), c)

	cube := m.And(a, m.Not(b))
	restricted := m.Restrict(f, cube)
	// a=1, b=0: a&b is False, so f reduces to c.
	if !m.Equal(restricted, c) {
		t.Errorf("Restrict(f, a & !b) = %s, want c", m.Print(restricted))
	}
}

func TestExist(t *testing.T) {
	m := newTestManager(t, 3)
	a, b, c := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.And(a, m.And(b, c))

	set := m.Makeset([]int{0})
	exist := m.Exist(f, set)
	if !m.Equal(exist, m.And(b, c)) {
		t.Errorf("exists a. (a & b & c) = %s, want b & c", m.Print(exist))
	}
}

func TestAndManyOrMany(t *testing.T) {
	m := newTestManager(t, 3)
	a, b, c := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)

	if !m.Equal(m.AndMany(), m.True()) {
		t.Errorf("AndMany() should be True")
	}
	if !m.Equal(m.OrMany(), m.False()) {
		t.Errorf("OrMany() should be False")
	}
	if !m.Equal(m.AndMany(a, b, c), m.And(a, m.And(b, c))) {
		t.Errorf("AndMany(a,b,c) != a & b & c")
	}
	if !m.Equal(m.OrMany(a, b, c), m.Or(a, m.Or(b, c))) {
		t.Errorf("OrMany(a,b,c) != a | b | c")
	}
}
