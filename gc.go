// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"github.com/sirupsen/logrus"
)

// AddRef increases the reference count on node n and returns n so that
// calls can be chained. Reference counting is only meaningful for
// externally held nodes; internal recursions use the refstack instead (see
// pushref/popref).
func (m *Manager) AddRef(n Node) Node {
	if n == nil || *n < 2 || int(*n) >= len(m.nodes) || m.nodes[*n].low == freeSlot {
		return n
	}
	if m.nodes[*n].refcou < _MAXREFCOUNT {
		m.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on node n and returns n so that
// calls can be chained.
func (m *Manager) DelRef(n Node) Node {
	if n == nil || int(*n) >= len(m.nodes) || m.nodes[*n].low == freeSlot {
		return n
	}
	if m.nodes[*n].refcou <= 0 {
		return n
	}
	if m.nodes[*n].refcou < _MAXREFCOUNT {
		m.nodes[*n].refcou--
	}
	return n
}

// GC explicitly triggers a garbage collection pass, identical to the one
// run implicitly from makenode when the arena is full.
func (m *Manager) GC() {
	m.gbc()
}

// gbc is the mark-sweep garbage collector: it marks every node reachable
// from the refstack (protecting nodes mid-construction) or with a positive
// reference count (the externally-held root set), then sweeps and rebuilds
// the unique table, then clears the computed caches (their keys are
// position-dependent and reference nodes that may just have been freed).
func (m *Manager) gbc() {
	if logLevel > 0 {
		m.log().Debug("starting gc")
	}
	m.gcHistory = append(m.gcHistory, gcPoint{nodes: len(m.nodes), freenodes: m.freenum})
	for _, r := range m.refstack {
		m.markrec(r)
	}
	for k := range m.nodes {
		if m.nodes[k].refcou > 0 {
			m.markrec(NodeID(k))
		}
	}
	m.freepos = 0
	m.freenum = 0
	for n := len(m.nodes) - 1; n > 1; n-- {
		id := NodeID(n)
		if m.ismarked(id) && m.nodes[id].low != freeSlot {
			m.unmarknode(id)
			continue
		}
		if m.nodes[id].low != freeSlot {
			m.delnode(id)
		}
		m.nodes[id].low = freeSlot
		m.nodes[id].high = m.freepos
		m.freepos = id
		m.freenum++
	}
	m.cachereset()
	m.stats.GCRuns++
	if logLevel > 0 {
		m.log().Debugf("end gc; freenum: %d", m.freenum)
	}
}

func (m *Manager) markrec(n NodeID) {
	if n < 2 || m.ismarked(n) || m.nodes[n].low == freeSlot {
		return
	}
	m.marknode(n)
	m.markrec(m.nodes[n].low)
	m.markrec(m.nodes[n].high)
}

func (m *Manager) unmarkall() {
	for k, v := range m.nodes {
		if k < 2 || v.low == freeSlot || !m.ismarked(NodeID(k)) {
			continue
		}
		m.unmarknode(NodeID(k))
	}
}

// markcount marks and counts the distinct nodes reachable from n, not
// counting the terminals. Used by NodeCount.
func (m *Manager) markcount(n NodeID) int {
	if n < 2 || m.ismarked(n) || m.nodes[n].low == freeSlot {
		return 0
	}
	m.marknode(n)
	return 1 + m.markcount(m.nodes[n].low) + m.markcount(m.nodes[n].high)
}

// refstack bookkeeping: protects transient nodes built mid-recursion from
// being reclaimed if a gc is triggered by a nested makenode call.

func (m *Manager) initref() {
	m.refstack = m.refstack[:0]
}

func (m *Manager) pushref(n NodeID) NodeID {
	m.refstack = append(m.refstack, n)
	return n
}

func (m *Manager) popref(a int) {
	m.refstack = m.refstack[:len(m.refstack)-a]
}

// log lazily resolves the package logger so the core library never forces
// a specific logrus configuration on its caller; CLI/tooling code sets it
// via SetLogger.
func (m *Manager) log() *logrus.Logger {
	if m.logger != nil {
		return m.logger
	}
	return logrus.StandardLogger()
}

// SetLogger overrides the logger used for the Manager's debug-level
// tracing (gc/resize/sift progress). Passing nil reverts to the standard
// logger.
func (m *Manager) SetLogger(l *logrus.Logger) {
	m.logger = l
}
