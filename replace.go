// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"
	"math"
)

var replaceSerial int32 = 1

// Replacer describes a variable substitution: Replace(level) reports the
// new level that should replace a node currently at that level, and ok is
// false for any level the substitution leaves untouched.
type Replacer interface {
	Replace(level int32) (int32, bool)
	id() int32
}

type replacer struct {
	serial int32
	image  []int32
	last   int32
}

func (r *replacer) String() string {
	res := fmt.Sprintf("replacer(last: %d)[", r.last)
	first := true
	for k, v := range r.image {
		if k != int(v) {
			if !first {
				res += ", "
			}
			first = false
			res += fmt.Sprintf("%d<-%d", k, v)
		}
	}
	return res + "]"
}

func (r *replacer) Replace(level int32) (int32, bool) {
	if level > r.last {
		return level, false
	}
	return r.image[level], true
}

func (r *replacer) id() int32 { return r.serial }

// NewReplacer builds a Replacer substituting the variable at level
// oldlevels[k] with the variable at level newlevels[k]. Both slices must
// have the same length, with no repeated entry in either, and every level
// must lie in [0, Varnum).
func (m *Manager) NewReplacer(oldlevels, newlevels []int) (Replacer, error) {
	if len(oldlevels) != len(newlevels) {
		return nil, fmt.Errorf("unmatched length of slices")
	}
	if replaceSerial == math.MaxInt32>>2 {
		return nil, fmt.Errorf("too many replacers created")
	}
	res := &replacer{serial: replaceSerial}
	replaceSerial++

	varnum := m.Varnum()
	support := make([]bool, varnum)
	res.image = make([]int32, varnum)
	for k := range res.image {
		res.image[k] = int32(k)
	}
	for k, v := range oldlevels {
		if v < 0 || v >= varnum {
			return nil, fmt.Errorf("invalid level in oldlevels (%d)", v)
		}
		if support[v] {
			return nil, fmt.Errorf("duplicate level (%d) in oldlevels", v)
		}
		if newlevels[k] < 0 || newlevels[k] >= varnum {
			return nil, fmt.Errorf("invalid level in newlevels (%d)", newlevels[k])
		}
		support[v] = true
		res.image[v] = int32(newlevels[k])
		if int32(v) > res.last {
			res.last = int32(v)
		}
	}
	for _, v := range newlevels {
		if int(res.image[v]) != v {
			return nil, fmt.Errorf("level in newlevels (%d) also occurs in oldlevels", v)
		}
	}
	return res, nil
}

// Replace computes the result of substituting variables in n according to
// r, preserving canonicity (the result is re-reduced through makenode as
// the new levels are threaded in).
func (m *Manager) Replace(n Node, r Replacer) Node {
	if m.checkptr(n) != nil {
		return m.seterrorf("wrong operand in call to Replace (%v)", n)
	}
	m.initref()
	m.pushref(*n)
	res := m.retnode(m.replace(*n, r))
	m.popref(1)
	return res
}

func (m *Manager) replace(n NodeID, r Replacer) NodeID {
	image, ok := r.Replace(m.level(n))
	if !ok {
		return n
	}
	if res, ok := m.replacec.lookup(n, n, n, r.id()); ok {
		return res
	}
	low := m.pushref(m.replace(m.low(n), r))
	high := m.pushref(m.replace(m.high(n), r))
	res := m.correctify(image, low, high)
	m.popref(2)
	m.replacec.insert(n, n, n, r.id(), res)
	return res
}

// correctify rebuilds a node at the given level from low/high, recursing
// past any level already taken by low or high so the variable order of the
// surviving descendants is respected.
func (m *Manager) correctify(level int32, low, high NodeID) NodeID {
	lowlvl := m.level(low)
	highlvl := m.level(high)
	if level < lowlvl && level < highlvl {
		res, err := m.makenode(m.level2var[level], low, high)
		if err != nil {
			m.seterror(err)
			return -1
		}
		return res
	}
	if level == lowlvl || level == highlvl {
		m.seterrorf("error in replace: level (%d) == low (%v:%d) or high (%v:%d)", level, low, lowlvl, high, highlvl)
		return -1
	}
	var res NodeID
	var err error
	switch {
	case lowlvl == highlvl:
		left := m.pushref(m.correctify(level, m.low(low), m.low(high)))
		right := m.pushref(m.correctify(level, m.high(low), m.high(high)))
		res, err = m.makenode(m.nodes[low].variable, left, right)
	case lowlvl < highlvl:
		left := m.pushref(m.correctify(level, m.low(low), high))
		right := m.pushref(m.correctify(level, m.high(low), high))
		res, err = m.makenode(m.nodes[low].variable, left, right)
	default:
		left := m.pushref(m.correctify(level, low, m.low(high)))
		right := m.pushref(m.correctify(level, low, m.high(high)))
		res, err = m.makenode(m.nodes[high].variable, left, right)
	}
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	return res
}
