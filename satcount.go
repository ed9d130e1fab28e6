// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math/big"
)

// Satcount computes the number of satisfying variable assignments for the
// function denoted by n, using arbitrary-precision arithmetic since the
// count can grow exponentially in Varnum. Returns zero, with the error
// flag set, if n is not a valid handle.
func (m *Manager) Satcount(n Node) *big.Int {
	res := big.NewInt(0)
	if m.checkptr(n) != nil {
		m.seterrorf("wrong operand in call to Satcount (%v)", n)
		return res
	}
	res.SetBit(res, int(m.level(*n)), 1)
	cache := make(map[NodeID]*big.Int)
	return res.Mul(res, m.satcount(*n, cache))
}

func (m *Manager) satcount(n NodeID, cache map[NodeID]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if res, ok := cache[n]; ok {
		return res
	}
	level := m.level(n)
	low := m.low(n)
	high := m.high(n)

	res := big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(m.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, m.satcount(low, cache)))
	two = big.NewInt(0)
	two.SetBit(two, int(m.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, m.satcount(high, cache)))
	cache[n] = res
	return res
}

// Satisfiable reports whether n denotes a satisfiable function, i.e. n is
// not the False terminal.
func (m *Manager) Satisfiable(n Node) bool {
	if m.checkptr(n) != nil {
		return false
	}
	return *n != ZERO
}

// NodeCount returns the number of distinct decision nodes reachable from n,
// not counting the two terminals.
func (m *Manager) NodeCount(n Node) int {
	if m.checkptr(n) != nil {
		return 0
	}
	count := m.markcount(*n)
	m.unmarkall()
	return count
}

// Allsat iterates over every satisfying assignment of n, calling f with a
// slice of length Varnum where each entry is 0 (false), 1 (true) or -1
// (don't care, the function's value does not depend on that variable along
// this branch). Iteration stops as soon as f returns a non-nil error, which
// Allsat then returns to its caller.
func (m *Manager) Allsat(n Node, f func([]int) error) error {
	if m.checkptr(n) != nil {
		return fmt.Errorf("wrong node in call to Allsat (%v)", n)
	}
	profile := make([]int, m.varnum)
	for k := range profile {
		profile[k] = -1
	}
	return m.allsat(*n, profile, f)
}

func (m *Manager) allsat(n NodeID, profile []int, f func([]int) error) error {
	if n == ONE {
		return f(profile)
	}
	if n == ZERO {
		return nil
	}
	if low := m.low(n); low != ZERO {
		profile[m.nodes[n].variable] = 0
		for v := m.level(low) - 1; v > m.level(n); v-- {
			profile[m.level2var[v]] = -1
		}
		if err := m.allsat(low, profile, f); err != nil {
			return err
		}
	}
	if high := m.high(n); high != ZERO {
		profile[m.nodes[n].variable] = 1
		for v := m.level(high) - 1; v > m.level(n); v-- {
			profile[m.level2var[v]] = -1
		}
		if err := m.allsat(high, profile, f); err != nil {
			return err
		}
	}
	return nil
}

// Allnodes calls f on every node reachable from the Nodes in n, or on every
// live node in the arena if n is empty. f receives the node's id, level,
// and the ids of its low and high successors; the terminals are always id 0
// (False) and 1 (True). Iteration order is unspecified. Iteration stops as
// soon as f returns a non-nil error, which Allnodes then returns.
func (m *Manager) Allnodes(f func(id, level, low, high int) error, n ...Node) error {
	for _, v := range n {
		if m.checkptr(v) != nil {
			return fmt.Errorf("wrong node in call to Allnodes (%v)", v)
		}
	}
	if len(n) == 0 {
		return m.allnodes(f)
	}
	return m.allnodesfrom(f, n)
}

func (m *Manager) allnodes(f func(id, level, low, high int) error) error {
	for id := range m.nodes {
		if id < 2 || m.nodes[id].low == freeSlot {
			continue
		}
		nd := m.nodes[id]
		if err := f(id, int(m.var2level[nd.variable]), int(nd.low), int(nd.high)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) allnodesfrom(f func(id, level, low, high int) error, n []Node) error {
	for _, v := range n {
		if err := m.allnodesrec(*v, f); err != nil {
			return err
		}
	}
	m.unmarkall()
	return nil
}

func (m *Manager) allnodesrec(n NodeID, f func(id, level, low, high int) error) error {
	if n < 2 || m.ismarked(n) {
		return nil
	}
	m.marknode(n)
	nd := m.nodes[n]
	if err := f(int(n), int(m.var2level[nd.variable]), int(nd.low), int(nd.high)); err != nil {
		return err
	}
	if err := m.allnodesrec(nd.low, f); err != nil {
		return err
	}
	return m.allnodesrec(nd.high, f)
}
