// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// quantset2cache rebuilds the variable membership table (quantset) used by
// quant/appquant to test, in O(1), whether the variable at a given level
// belongs to the quantification set denoted by varset. A fresh id is
// stamped into every member's slot and quantlast is set to the deepest
// member level so that quant/appquant can skip the recursion entirely once
// no remaining variable is in the set.
func (m *Manager) quantset2cache(varset NodeID) error {
	m.quantsetID++
	if m.quantsetID == 0 {
		// wrapped around; every slot would spuriously compare equal to 0
		for k := range m.quantset {
			m.quantset[k] = 0
		}
		m.quantsetID++
	}
	m.quantlast = -1
	for n := varset; n > 1; n = m.high(n) {
		lvl := m.level(n)
		m.quantset[lvl] = m.quantsetID
		if lvl > m.quantlast {
			m.quantlast = lvl
		}
	}
	return nil
}

// Exist returns the existential quantification of n over the variables in
// varset, a cube built with Makeset.
func (m *Manager) Exist(n, varset Node) Node {
	if m.checkptr(n) != nil {
		return m.seterrorf("wrong node in call to Exist (%v)", n)
	}
	if m.checkptr(varset) != nil {
		return m.seterrorf("wrong varset in call to Exist (%v)", varset)
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	if *varset < 2 {
		return n
	}
	m.applyop = OPor
	m.initref()
	m.pushref(*n)
	m.pushref(*varset)
	res := m.quant(*n, *varset)
	m.popref(2)
	return m.retnode(res)
}

func (m *Manager) quant(n, varset NodeID) NodeID {
	if n < 2 || m.level(n) > m.quantlast {
		return n
	}
	if res, ok := m.quantc.lookup(n, varset, varset, int32(m.quantsetID)); ok {
		return res
	}
	low := m.pushref(m.quant(m.low(n), varset))
	high := m.pushref(m.quant(m.high(n), varset))
	var res NodeID
	var err error
	if m.quantset[m.level(n)] == m.quantsetID {
		res = m.apply(low, high)
	} else {
		res, err = m.makenode(m.nodes[n].variable, low, high)
	}
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.quantc.insert(n, varset, varset, int32(m.quantsetID), res)
	return res
}

// AppEx applies the binary operator op to left and right, then existentially
// quantifies the result over varset, in a single bottom-up traversal. This
// is the efficient form of Exist(Apply(left, right, op), varset): it avoids
// building the full (unquantified) intermediate BDD. Only conjunction,
// disjunction, xor, nand and nor are supported.
func (m *Manager) AppEx(left, right Node, op Operator, varset Node) Node {
	if op > OPnor {
		return m.seterrorf("operator %s not supported in call to AppEx", op)
	}
	if m.checkptr(varset) != nil {
		return m.seterrorf("wrong varset in call to AppEx (%v)", varset)
	}
	if *varset < 2 {
		return m.Apply(left, right, op)
	}
	if m.checkptr(left) != nil {
		return m.seterrorf("wrong left operand in call to AppEx %s", op)
	}
	if m.checkptr(right) != nil {
		return m.seterrorf("wrong right operand in call to AppEx %s", op)
	}
	if err := m.quantset2cache(*varset); err != nil {
		return nil
	}
	m.applyop = OPor
	m.quantop = op
	m.initref()
	m.pushref(*left)
	m.pushref(*right)
	m.pushref(*varset)
	res := m.appquant(*left, *right, *varset)
	m.popref(3)
	return m.retnode(res)
}

func (m *Manager) appquant(left, right, varset NodeID) NodeID {
	op := m.quantop
	switch op {
	case OPand:
		if left == ZERO || right == ZERO {
			return ZERO
		}
		if left == right {
			return m.quant(left, varset)
		}
		if left == ONE {
			return m.quant(right, varset)
		}
		if right == ONE {
			return m.quant(left, varset)
		}
	case OPor:
		if left == ONE || right == ONE {
			return ONE
		}
		if left == right {
			return m.quant(left, varset)
		}
		if left == ZERO {
			return m.quant(right, varset)
		}
		if right == ZERO {
			return m.quant(left, varset)
		}
	case OPxor:
		if left == right {
			return ZERO
		}
		if left == ZERO {
			return m.quant(right, varset)
		}
		if right == ZERO {
			return m.quant(left, varset)
		}
	case OPnand:
		if left == ZERO || right == ZERO {
			return ONE
		}
	case OPnor:
		if left == ONE || right == ONE {
			return ZERO
		}
	default:
		m.seterrorf("unauthorized operation (%s) in AppEx", op)
		return -1
	}

	if left < 2 && right < 2 {
		return NodeID(opres[op][left][right])
	}

	if m.level(left) > m.quantlast && m.level(right) > m.quantlast {
		oldop := m.applyop
		m.applyop = op
		res := m.apply(left, right)
		m.applyop = oldop
		return res
	}

	tag := int32(op)<<8 | int32(m.quantsetID)
	if res, ok := m.quantc.lookup(left, right, varset, tag); ok {
		return res
	}
	leftlvl := m.level(left)
	rightlvl := m.level(right)
	var res NodeID
	var err error
	switch {
	case leftlvl == rightlvl:
		low := m.pushref(m.appquant(m.low(left), m.low(right), varset))
		high := m.pushref(m.appquant(m.high(left), m.high(right), varset))
		if m.quantset[leftlvl] == m.quantsetID {
			res = m.apply(low, high)
		} else {
			res, err = m.makenode(m.nodes[left].variable, low, high)
		}
	case leftlvl < rightlvl:
		low := m.pushref(m.appquant(m.low(left), right, varset))
		high := m.pushref(m.appquant(m.high(left), right, varset))
		if m.quantset[leftlvl] == m.quantsetID {
			res = m.apply(low, high)
		} else {
			res, err = m.makenode(m.nodes[left].variable, low, high)
		}
	default:
		low := m.pushref(m.appquant(left, m.low(right), varset))
		high := m.pushref(m.appquant(left, m.high(right), varset))
		if m.quantset[rightlvl] == m.quantsetID {
			res = m.apply(low, high)
		} else {
			res, err = m.makenode(m.nodes[right].variable, low, high)
		}
	}
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.quantc.insert(left, right, varset, tag, res)
	return res
}
