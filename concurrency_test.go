// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/rand"
	"testing"
)

func randomClauses(varnum, count int, seed int64) []Clause {
	rng := rand.New(rand.NewSource(seed))
	clauses := make([]Clause, count)
	for i := range clauses {
		lits := 1 + rng.Intn(3)
		c := make(Clause, 0, lits)
		for j := 0; j < lits; j++ {
			v := 1 + rng.Intn(varnum)
			if rng.Intn(2) == 0 {
				v = -v
			}
			c = append(c, v)
		}
		clauses[i] = c
	}
	return clauses
}

// TestFromCNFParallelAgreesWithSequential checks that building the same CNF
// sequentially and with several workers produces the same Boolean function,
// per spec.md §5's convergence guarantee at quiescence.
func TestFromCNFParallelAgreesWithSequential(t *testing.T) {
	const varnum = 10
	clauses := randomClauses(varnum, 40, 99)

	seq := newTestManager(t, varnum)
	fseq, err := FromCNF(seq, clauses)
	if err != nil {
		t.Fatalf("FromCNF: %s", err)
	}

	for _, workers := range []int{2, 4, 8} {
		par := newTestManager(t, varnum)
		fpar, err := FromCNFParallel(par, clauses, workers)
		if err != nil {
			t.Fatalf("FromCNFParallel(workers=%d): %s", workers, err)
		}
		if par.Building() {
			t.Errorf("workers=%d: manager still reports Building after FromCNFParallel returned", workers)
		}
		if seq.Satcount(fseq).Cmp(par.Satcount(fpar)) != 0 {
			t.Errorf("workers=%d: sat_count differs from the sequential build: %s vs %s", workers, seq.Satcount(fseq), par.Satcount(fpar))
		}
		canonical(t, par)
		orderRespected(t, par)
	}
}

func TestFromCNFParallelDefaultsWorkersAndHandlesTinyInput(t *testing.T) {
	m := newTestManager(t, 3)
	clauses := []Clause{{1, 2}, {-1, 3}}
	root, err := FromCNFParallel(m, clauses, 0)
	if err != nil {
		t.Fatalf("FromCNFParallel(workers=0): %s", err)
	}
	seq := newTestManager(t, 3)
	fseq, err := FromCNF(seq, clauses)
	if err != nil {
		t.Fatalf("FromCNF: %s", err)
	}
	if seq.Satcount(fseq).Cmp(m.Satcount(root)) != 0 {
		t.Errorf("FromCNFParallel(workers=0) disagrees with FromCNF")
	}
}
