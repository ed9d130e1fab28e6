// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Clause is a CNF clause: a slice of non-zero literals. A positive literal l
// asserts variable l-1; a negative literal -l asserts its negation.
type Clause []int

func literalNode(m *Manager, lit int) (Node, error) {
	if lit == 0 {
		return nil, errors.New("literal 0 is not valid in a clause")
	}
	v := lit
	if v < 0 {
		v = -v
	}
	v--
	if v >= m.Varnum() {
		return nil, errors.Errorf("literal %d refers to undeclared variable", lit)
	}
	if lit > 0 {
		return m.Ithvar(v), nil
	}
	return m.NIthvar(v), nil
}

func clauseNode(m *Manager, c Clause) (Node, error) {
	acc := m.False()
	for _, lit := range c {
		ln, err := literalNode(m, lit)
		if err != nil {
			return nil, err
		}
		acc = m.Or(acc, ln)
	}
	if m.Errored() {
		return nil, m.err
	}
	return acc, nil
}

// FromCNF builds the ROBDD of the conjunction of clauses in m: each clause
// becomes the disjunction of its literals, and the clauses are conjoined in
// order. It runs to completion on the calling goroutine, mutating m
// directly, exactly as the sequential engine of spec.md §5 describes.
func FromCNF(m *Manager, clauses []Clause) (Node, error) {
	acc := m.True()
	for _, c := range clauses {
		cn, err := clauseNode(m, c)
		if err != nil {
			return nil, err
		}
		acc = m.And(acc, cn)
		if m.Errored() {
			return nil, m.err
		}
	}
	return acc, nil
}

// splitClauses partitions clauses into at most workers contiguous, disjoint
// ranges.
func splitClauses(clauses []Clause, workers int) [][]Clause {
	n := len(clauses)
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunks := make([][]Clause, 0, workers)
	for i := 0; i < n; i += chunkSize {
		end := i + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, clauses[i:end])
	}
	return chunks
}

// FromCNFParallel builds the same ROBDD as FromCNF, but splits clauses into
// workers disjoint ranges (workers <= 0 defaults to the WithShards value
// capped at GOMAXPROCS; workers never exceeds the clause count), each built
// to completion by its own worker goroutine in a private, throwaway
// Manager sharing m's variable count and level order. This is the "each
// worker owns a local subtree" strategy of spec.md §5, rather than a
// sharded unique table shared by every goroutine: the only section that
// touches m concurrently with nothing else is the sequential merge, which
// runs under m's exclusive lock while m is reported as Building.
func FromCNFParallel(m *Manager, clauses []Clause, workers int) (Node, error) {
	if workers <= 0 {
		workers = m.shards
		if cpu := runtime.GOMAXPROCS(0); cpu < workers {
			workers = cpu
		}
	}
	if workers > len(clauses) {
		workers = len(clauses)
	}
	if workers <= 1 || len(clauses) == 0 {
		return FromCNF(m, clauses)
	}

	chunks := splitClauses(clauses, workers)
	order := make([]VarID, m.Varnum())
	copy(order, m.level2var)

	type partial struct {
		local *Manager
		root  Node
	}
	partials := make([]partial, len(chunks))

	m.beginBuild()
	defer m.endBuild()

	g, _ := errgroup.WithContext(context.Background())
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			local, err := New(m.Varnum(), order)
			if err != nil {
				return err
			}
			root, err := FromCNF(local, chunk)
			if err != nil {
				return err
			}
			partials[i] = partial{local: local, root: root}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.True()
	for _, p := range partials {
		copied, err := m.copyFrom(p.local, p.root)
		if err != nil {
			return nil, err
		}
		acc = m.And(acc, copied)
		if m.Errored() {
			return nil, m.err
		}
	}
	return acc, nil
}

// copyFrom rebuilds, inside m, the subgraph of local reachable from n,
// bottom-up through m.makenode so the result is canonical in m regardless
// of how n's NodeID was numbered in local. This is the merge point of
// FromCNFParallel, and follows the same reconstruction idiom used by Read
// and ReadDDDMP to import a foreign node numbering.
func (m *Manager) copyFrom(local *Manager, n Node) (Node, error) {
	if local.checkptr(n) != nil {
		return nil, ErrInvalidHandle
	}
	memo := map[NodeID]NodeID{ZERO: ZERO, ONE: ONE}
	m.initref()
	built := 0

	var rec func(id NodeID) (NodeID, error)
	rec = func(id NodeID) (NodeID, error) {
		if res, ok := memo[id]; ok {
			return res, nil
		}
		nd := local.nodes[id]
		low, err := rec(nd.low)
		if err != nil {
			return -1, err
		}
		m.pushref(low)
		high, err := rec(nd.high)
		if err != nil {
			return -1, err
		}
		res, err := m.makenode(nd.variable, low, high)
		m.popref(1)
		if err != nil {
			return -1, err
		}
		memo[id] = res
		m.pushref(res)
		built++
		return res, nil
	}

	res, err := rec(*n)
	if err != nil {
		m.popref(built)
		return nil, err
	}
	out := m.retnode(res)
	m.popref(built)
	return out, nil
}

// beginBuild marks m as Building: a parallel construction is in flight.
// Quiescent-only operations block in awaitQuiescent until endBuild runs.
func (m *Manager) beginBuild() {
	atomic.StoreInt32((*int32)(&m.mode), int32(modeBuilding))
}

func (m *Manager) endBuild() {
	atomic.StoreInt32((*int32)(&m.mode), int32(modeQuiescent))
}

// Building reports whether m is currently in the Building mode entered by
// FromCNFParallel.
func (m *Manager) Building() bool {
	return atomic.LoadInt32((*int32)(&m.mode)) == int32(modeBuilding)
}

// awaitQuiescent blocks the caller until any in-flight FromCNFParallel merge
// completes. DVO and serialization call this before reading or mutating the
// node arena, per spec.md §5's requirement that they run only with
// exclusive access.
func (m *Manager) awaitQuiescent() {
	m.mu.Lock()
	//nolint:staticcheck // deliberately empty critical section: we only need
	// to wait for whoever holds the lock (a FromCNFParallel merge) to finish.
	m.mu.Unlock()
}
