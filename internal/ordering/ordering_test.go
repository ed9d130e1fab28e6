// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ordering

import (
	"testing"

	"github.com/dalzilio/robdd"
)

func TestIdentity(t *testing.T) {
	order := Identity(5)
	for i, v := range order {
		if int(v) != i {
			t.Errorf("Identity(5)[%d] = %d, want %d", i, v, i)
		}
	}
}

func isPermutation(order []robdd.VarID, numVars int) bool {
	seen := make([]bool, numVars)
	for _, v := range order {
		if int(v) < 0 || int(v) >= numVars || seen[v] {
			return false
		}
		seen[v] = true
	}
	return len(order) == numVars
}

func TestForceReturnsAPermutation(t *testing.T) {
	clauses := []robdd.Clause{
		{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 1},
		{-1, -3}, {-2, -4},
	}
	order := Force(5, clauses, 1000)
	if !isPermutation(order, 5) {
		t.Fatalf("Force did not return a permutation of [0,5): %v", order)
	}
}

// TestForceDoesNotIncreaseSpanOnAChain checks, on an instance whose natural
// variable order is bad (each clause links variables far apart in index
// order), that FORCE returns a permutation whose total clause span is no
// larger than that of the identity order.
func TestForceDoesNotIncreaseSpanOnAChain(t *testing.T) {
	const numVars = 8
	// Clauses link variable i to variable numVars-1-i: maximally spread out
	// under the identity order.
	var clauses []robdd.Clause
	for i := 0; i < numVars/2; i++ {
		clauses = append(clauses, robdd.Clause{i + 1, numVars - i})
	}

	identity := Identity(numVars)
	pos := make([]float64, numVars)
	for i, v := range identity {
		pos[v] = float64(i)
	}
	before := span(clauses, pos)

	order := Force(numVars, clauses, 1000)
	if !isPermutation(order, numVars) {
		t.Fatalf("Force did not return a permutation: %v", order)
	}
	fpos := make([]float64, numVars)
	for lvl, v := range order {
		fpos[v] = float64(lvl)
	}
	after := span(clauses, fpos)

	if after > before {
		t.Errorf("FORCE increased total span: %v -> %v", before, after)
	}
}

func TestForceZeroMaxIterationsDoesNotPanic(t *testing.T) {
	clauses := []robdd.Clause{{1, 2}, {2, -3}}
	order := Force(3, clauses, 0)
	if !isPermutation(order, 3) {
		t.Fatalf("Force(maxIterations=0) did not return a permutation: %v", order)
	}
}
