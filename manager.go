// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// freeSlot marks an unused entry in the node arena; its high field then
// points to the next free slot (a classic free list threaded through the
// arena itself).
const freeSlot NodeID = -1

// buildMode records whether the Manager currently allows concurrent
// construction (Building) or requires exclusive access (Quiescent). DVO and
// serialization wait for Quiescent (see awaitQuiescent); other operations do
// not check the mode.
type buildMode int32

const (
	modeQuiescent buildMode = iota
	modeBuilding
)

// Manager owns the node arena, the unique table, the level index and the
// computed caches for a fixed universe of variables. It is the sole owner of
// all BDD state: there is no global mutable state beyond package-level
// logger initialization.
type Manager struct {
	nodes   []node             // node arena; slots 0 and 1 are the terminals
	unique  map[nodeKey]NodeID // interning table: (var,low,high) -> NodeID
	freenum int                // number of free slots
	freepos NodeID             // first free slot, or 0 if freenum == 0

	produced int // total number of nodes ever allocated

	varnum    int32     // number of declared variables
	var2level []int32   // VarID -> current level
	level2var []VarID   // current level -> VarID
	varset    [][2]NodeID // Ithvar/NIthvar node per VarID

	refstack []NodeID // protects transient nodes from gc during a recursion

	itec       *opCache // memoizes ite(f,g,h)
	restrictc  *opCache // memoizes restrict(f, assignment)
	notc       *opCache // memoizes not(f) (unary, keyed as (f,f,f))
	quantc     *opCache // memoizes exist/appex
	replacec   *opCache // memoizes replace
	quantset   []int32
	quantsetID int32
	quantlast  int32
	quantop    Operator
	applyop    Operator

	restrictset   []int32 // level -> id stamped by restrictset2cache, if pinned
	restrictval   []int8  // level -> pinned value (0 or 1), valid iff restrictset[level] == restrictsetID
	restrictsetID int32
	restrictlast  int32

	mode buildMode // atomic via sync/atomic helpers below
	wg   sync.WaitGroup
	mu   sync.RWMutex // serializes Quiescent-only operations against builders

	stats ManagerStats

	nodefinalizer interface{}
	gcHistory     []gcPoint

	configs
	err error

	logger *logrus.Logger
}

// ManagerStats tracks running totals surfaced by Stats() and consulted by
// DVO schedules.
type ManagerStats struct {
	GCRuns       int
	Resizes      int
	Swaps        int
	SiftSweeps   int
	UniqueHits   int
	UniqueMisses int
}

type gcPoint struct {
	nodes, freenodes int
}

// New creates a Manager for varnum variables, numbered 0..varnum-1. The
// initial level order is the ordering slice, a permutation of [0,varnum); a
// nil ordering keeps the identity order (level i == variable i).
func New(varnum int, ordering []VarID, opts ...Option) (*Manager, error) {
	if varnum < 1 || varnum > int(_MAXVAR) {
		return nil, errors.Errorf("bad number of variables (%d)", varnum)
	}
	c := makeconfigs(varnum)
	for _, o := range opts {
		o(c)
	}
	nodesize := c.nodesize
	if nodesize < 2*varnum+2 {
		nodesize = 2*varnum + 2
	}

	m := &Manager{}
	m.configs = *c
	m.varnum = int32(varnum)
	m.logger = logrus.StandardLogger()

	m.nodes = make([]node, nodesize)
	for k := range m.nodes {
		m.nodes[k] = node{low: freeSlot, high: NodeID(k + 1)}
	}
	m.nodes[nodesize-1].high = 0
	m.unique = make(map[nodeKey]NodeID, nodesize)
	m.nodes[ZERO] = node{variable: BOTTOM, low: ZERO, high: ZERO, refcou: _MAXREFCOUNT}
	m.nodes[ONE] = node{variable: TOP, low: ONE, high: ONE, refcou: _MAXREFCOUNT}
	m.freepos = 2
	m.freenum = nodesize - 2

	m.var2level = make([]int32, varnum)
	m.level2var = make([]VarID, varnum)
	if ordering == nil {
		for i := 0; i < varnum; i++ {
			m.var2level[i] = int32(i)
			m.level2var[i] = VarID(i)
		}
	} else {
		if len(ordering) != varnum {
			return nil, errors.Errorf("ordering length (%d) does not match varnum (%d)", len(ordering), varnum)
		}
		seen := make([]bool, varnum)
		for lvl, v := range ordering {
			if int(v) < 0 || int(v) >= varnum || seen[v] {
				return nil, errors.Errorf("invalid or duplicate variable (%d) in ordering", v)
			}
			seen[v] = true
			m.var2level[v] = int32(lvl)
			m.level2var[lvl] = v
		}
	}

	m.varset = make([][2]NodeID, varnum)
	m.refstack = make([]NodeID, 0, 2*varnum+4)
	m.initref()
	for v := 0; v < varnum; v++ {
		lvl := m.var2level[v]
		lo, err := m.makenode(VarID(v), ZERO, ONE)
		if err != nil {
			return nil, err
		}
		m.pushref(lo)
		hi, err := m.makenode(VarID(v), ONE, ZERO)
		if err != nil {
			return nil, err
		}
		m.popref(1)
		m.nodes[lo].refcou = _MAXREFCOUNT
		m.nodes[hi].refcou = _MAXREFCOUNT
		m.varset[v] = [2]NodeID{lo, hi}
		_ = lvl
	}

	cachesize := c.cachesize
	if cachesize <= 0 {
		cachesize = nodesize/5 + 1
	}
	cachesize = bdd_prime_gte(cachesize)
	m.itec = newOpCache(cachesize)
	m.restrictc = newOpCache(cachesize)
	m.notc = newOpCache(cachesize)
	m.quantc = newOpCache(cachesize)
	m.replacec = newOpCache(cachesize)
	m.quantset = make([]int32, varnum)
	m.restrictset = make([]int32, varnum)
	m.restrictval = make([]int8, varnum)

	m.nodefinalizer = func(n *NodeID) {
		if debugEnabled {
			atomic.AddUint64(&debugFinalizersCalled, 1)
		}
		m.nodes[*n].refcou--
	}

	return m, nil
}

// Varnum returns the number of declared variables.
func (m *Manager) Varnum() int {
	return int(m.varnum)
}

// level returns the current level of node n (the level of its variable, or
// varnum for the terminals).
func (m *Manager) level(n NodeID) int32 {
	v := m.nodes[n].variable
	if int(v) >= len(m.var2level) {
		return m.varnum
	}
	return m.var2level[v]
}

func (m *Manager) low(n NodeID) NodeID  { return m.nodes[n].low }
func (m *Manager) high(n NodeID) NodeID { return m.nodes[n].high }

// ************************************************************
// unique table: interning primitive (spec.md §4.1)

// makenode is the single entry point through which new decision nodes enter
// the DAG. It applies the redundancy rule (low == high) and the sharing
// rule (lookup-or-insert in the unique table) in order.
func (m *Manager) makenode(v VarID, low, high NodeID) (NodeID, error) {
	if debugEnabled {
		m.stats.UniqueMisses++ // corrected below on hit
	}
	if low == high {
		return low, nil
	}
	key := nodeKey{v, low, high}
	if res, ok := m.unique[key]; ok {
		m.stats.UniqueHits++
		if debugEnabled {
			m.stats.UniqueMisses--
		}
		return res, nil
	}
	if m.freepos == 0 {
		m.gbc()
		if (m.freenum*100)/len(m.nodes) <= m.minfreenodes {
			if err := m.noderesize(); err != nil && err != errResize {
				return -1, err
			}
		}
		if m.freepos == 0 {
			return -1, errMemory
		}
	}
	m.produced++
	res := m.freepos
	m.freepos = m.nodes[res].high
	m.nodes[res] = node{variable: v, low: low, high: high}
	m.unique[key] = res
	m.freenum--
	return res, nil
}

// delnode removes a node's entry from the unique table (used by gc and by
// DVO's swapLevel when a node's triple is rewritten).
func (m *Manager) delnode(n NodeID) {
	nd := m.nodes[n]
	delete(m.unique, nodeKey{nd.variable, nd.low, nd.high})
}

func (m *Manager) noderesize() error {
	oldsize := len(m.nodes)
	nodesize := oldsize
	if m.maxnodesize > 0 && oldsize >= m.maxnodesize {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if m.maxnodeincrease > 0 && nodesize > oldsize+m.maxnodeincrease {
		nodesize = oldsize + m.maxnodeincrease
	}
	if m.maxnodesize > 0 && nodesize > m.maxnodesize {
		nodesize = m.maxnodesize
	}
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := m.nodes
	m.nodes = make([]node, nodesize)
	copy(m.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		m.nodes[n] = node{low: freeSlot, high: NodeID(n + 1)}
	}
	m.nodes[nodesize-1].high = m.freepos
	m.freepos = NodeID(oldsize)
	m.freenum += nodesize - oldsize
	m.stats.Resizes++

	if m.cacheratio > 0 {
		newsize := bdd_prime_gte(nodesize * m.cacheratio / 100)
		m.itec.resize(newsize)
		m.restrictc.resize(newsize)
		m.notc.resize(newsize)
		m.quantc.resize(newsize)
		m.replacec.resize(newsize)
	}
	return errResize
}

// retnode wraps a raw NodeID into a refcounted, finalizer-managed Node
// handle. The terminals are returned as shared, finalizer-free handles.
func (m *Manager) retnode(n NodeID) Node {
	if n < 0 {
		return nil
	}
	if n == ZERO {
		return nodeZero
	}
	if n == ONE {
		return nodeOne
	}
	x := n
	if m.nodes[n].refcou < _MAXREFCOUNT {
		m.nodes[n].refcou++
		runtime.SetFinalizer(&x, m.nodefinalizer)
		if debugEnabled {
			atomic.AddUint64(&debugFinalizersSet, 1)
		}
	}
	return &x
}

var debugFinalizersSet uint64
var debugFinalizersCalled uint64

// Stats returns a human-readable summary of node-table and cache usage.
func (m *Manager) Stats() string {
	free := float64(m.freenum) / float64(len(m.nodes)) * 100
	return fmt.Sprintf(
		"Variables:  %d\nAllocated:  %d\nProduced:   %d\nFree:       %d (%.3g %%)\nGC runs:    %d\nResizes:    %d\nSift swaps: %d\n",
		m.varnum, len(m.nodes), m.produced, m.freenum, free, m.stats.GCRuns, m.stats.Resizes, m.stats.Swaps,
	)
}
