// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/rand"
	"testing"
)

// bruteForceCount enumerates every assignment to the varnum declared
// variables of m and evaluates f's truth table directly by walking the DAG,
// independent of Satcount.
func bruteForceCount(t *testing.T, m *Manager, f Node) int64 {
	t.Helper()
	varnum := m.Varnum()
	var count int64
	for assignment := 0; assignment < 1<<uint(varnum); assignment++ {
		n := *f
		for n > 1 {
			v := int(m.nodes[n].variable)
			if assignment&(1<<uint(v)) != 0 {
				n = m.nodes[n].high
			} else {
				n = m.nodes[n].low
			}
		}
		if n == NodeID(ONE) {
			count++
		}
	}
	return count
}

func TestSatcountMatchesBruteForce(t *testing.T) {
	const varnum = 8
	m := newTestManager(t, varnum)
	rng := rand.New(rand.NewSource(42))

	randomClause := func() Node {
		c := m.False()
		lits := 1 + rng.Intn(3)
		for i := 0; i < lits; i++ {
			v := m.Ithvar(rng.Intn(varnum))
			if rng.Intn(2) == 0 {
				v = m.Not(v)
			}
			c = m.Or(c, v)
		}
		return c
	}

	f := m.True()
	for i := 0; i < 12; i++ {
		f = m.And(f, randomClause())
		want := bruteForceCount(t, m, f)
		got := m.Satcount(f).Int64()
		if got != want {
			t.Fatalf("after %d clauses: Satcount = %d, brute force = %d", i+1, got, want)
		}
	}
}

func TestSatisfiableAgreesWithSatcount(t *testing.T) {
	m := newTestManager(t, 3)
	a, b := m.Ithvar(0), m.Ithvar(1)
	f := m.And(a, m.Not(a))
	if m.Satisfiable(f) {
		t.Errorf("a & !a reported satisfiable")
	}
	g := m.Or(a, b)
	if !m.Satisfiable(g) {
		t.Errorf("a | b reported unsatisfiable")
	}
	if (m.Satcount(g).Sign() > 0) != m.Satisfiable(g) {
		t.Errorf("Satisfiable and Satcount disagree on a | b")
	}
}

func TestAllsatCoversEveryModel(t *testing.T) {
	m := newTestManager(t, 3)
	a, b, c := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Or(m.And(a, b), c)

	sum := m.False()
	err := m.Allsat(f, func(profile []int) error {
		term := m.True()
		for v, val := range profile {
			switch val {
			case 0:
				term = m.And(term, m.NIthvar(v))
			case 1:
				term = m.And(term, m.Ithvar(v))
			}
		}
		sum = m.Or(sum, term)
		return nil
	})
	if err != nil {
		t.Fatalf("Allsat: %s", err)
	}
	if !m.Equal(sum, f) {
		t.Errorf("union of Allsat terms != f")
	}
}
