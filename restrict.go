// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Restrict rewrites f by substituting the value fixed by each literal of
// cube for every test of the corresponding variable: a positive literal
// (Ithvar) pins that variable to 1, a negative literal (NIthvar) pins it to
// 0. Variables not mentioned in cube are left as don't-care. cube must be a
// node built as a conjunction of literals (e.g. via Apply(..., OPand) over
// Ithvar/NIthvar), one literal per variable level on the path to True.
func (m *Manager) Restrict(f, cube Node) Node {
	if m.checkptr(f) != nil {
		return m.seterrorf("wrong operand f in call to Restrict")
	}
	if m.checkptr(cube) != nil {
		return m.seterrorf("wrong cube in call to Restrict")
	}
	if err := m.restrictset2cache(*cube); err != nil {
		return m.seterror(err)
	}
	if *cube < 2 {
		return f
	}
	m.initref()
	m.pushref(*f)
	res := m.restrict(*f)
	m.popref(1)
	return m.retnode(res)
}

// restrictset2cache walks the literal cube and records, per level, the
// pinned value, stamping a fresh restrictsetID so restrict's cache entries
// from a prior call never alias this one.
func (m *Manager) restrictset2cache(cube NodeID) error {
	m.restrictsetID++
	if m.restrictsetID == 0 {
		for k := range m.restrictset {
			m.restrictset[k] = 0
		}
		m.restrictsetID++
	}
	m.restrictlast = -1
	for c := cube; c > 1; {
		lvl := m.level(c)
		switch {
		case m.low(c) == ZERO:
			m.restrictset[lvl] = m.restrictsetID
			m.restrictval[lvl] = 1
			c = m.high(c)
		case m.high(c) == ZERO:
			m.restrictset[lvl] = m.restrictsetID
			m.restrictval[lvl] = 0
			c = m.low(c)
		default:
			return errInvalidCube
		}
		if lvl > m.restrictlast {
			m.restrictlast = lvl
		}
	}
	return nil
}

func (m *Manager) restrict(n NodeID) NodeID {
	if n < 2 || m.level(n) > m.restrictlast {
		return n
	}
	lvl := m.level(n)
	if m.restrictset[lvl] == m.restrictsetID {
		if m.restrictval[lvl] == 0 {
			return m.restrict(m.low(n))
		}
		return m.restrict(m.high(n))
	}
	if res, ok := m.restrictc.lookup(n, n, n, m.restrictsetID); ok {
		return res
	}
	low := m.pushref(m.restrict(m.low(n)))
	high := m.pushref(m.restrict(m.high(n)))
	res, err := m.makenode(m.nodes[n].variable, low, high)
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.restrictc.insert(n, n, n, m.restrictsetID, res)
	return res
}
