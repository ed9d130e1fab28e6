// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// Node is a reference to a decision in a Manager's DAG. It is the atomic
// unit of interaction: every public operation takes and returns Nodes. Node
// wraps a NodeID behind a pointer so the Go runtime can run a finalizer on
// it to decrement the node's reference count once the caller drops its last
// copy (see retnode in manager.go).
type Node *NodeID

// True returns the Node for the constant true (the ONE terminal).
func (m *Manager) True() Node { return nodeOne }

// False returns the Node for the constant false (the ZERO terminal).
func (m *Manager) False() Node { return nodeZero }

// From returns the constant Node corresponding to a boolean value.
func (m *Manager) From(v bool) Node {
	if v {
		return nodeOne
	}
	return nodeZero
}

// Ithvar returns the Node representing the i'th variable in its positive
// form. i must be in [0, Varnum).
func (m *Manager) Ithvar(i int) Node {
	if i < 0 || i >= len(m.varset) {
		return m.seterrorf("bad variable index (%d) in Ithvar", i)
	}
	return m.retnode(m.varset[i][0])
}

// NIthvar returns the Node representing the negation of the i'th variable.
func (m *Manager) NIthvar(i int) Node {
	if i < 0 || i >= len(m.varset) {
		return m.seterrorf("bad variable index (%d) in NIthvar", i)
	}
	return m.retnode(m.varset[i][1])
}

// Low returns the false branch of n.
func (m *Manager) Low(n Node) Node {
	if m.checkptr(n) != nil {
		return m.seterrorf("wrong operand in call to Low (%v)", n)
	}
	return m.retnode(m.low(*n))
}

// High returns the true branch of n.
func (m *Manager) High(n Node) Node {
	if m.checkptr(n) != nil {
		return m.seterrorf("wrong operand in call to High (%v)", n)
	}
	return m.retnode(m.high(*n))
}

// Makeset returns the cube (conjunction) of the positive form of the
// variables in varset.
func (m *Manager) Makeset(varset []int) Node {
	res := nodeOne
	for _, v := range varset {
		res = m.Apply(res, m.Ithvar(v), OPand)
		if m.err != nil {
			return nodeZero
		}
	}
	return res
}

// Scanset returns the variables found by following the high branch of n,
// the dual of Makeset.
func (m *Manager) Scanset(n Node) []int {
	if m.checkptr(n) != nil {
		return nil
	}
	if *n < 2 {
		return []int{}
	}
	res := []int{}
	for i := *n; i > 1; i = m.high(i) {
		res = append(res, int(m.nodes[i].variable))
	}
	return res
}

// Equal reports whether two Nodes denote the same NodeID.
func (m *Manager) Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// ************************************************************
// Not

// Not returns the negation of n.
func (m *Manager) Not(n Node) Node {
	if m.checkptr(n) != nil {
		return m.seterrorf("wrong operand in call to Not (%v)", n)
	}
	m.initref()
	m.pushref(*n)
	res := m.not(*n)
	m.popref(1)
	return m.retnode(res)
}

func (m *Manager) not(n NodeID) NodeID {
	if n == ZERO {
		return ONE
	}
	if n == ONE {
		return ZERO
	}
	if res, ok := m.notc.lookup(n, n, n, 0); ok {
		return res
	}
	low := m.pushref(m.not(m.low(n)))
	high := m.pushref(m.not(m.high(n)))
	res, err := m.makenode(m.nodes[n].variable, low, high)
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.notc.insert(n, n, n, 0, res)
	return res
}

// ************************************************************
// Apply

// Apply performs a binary Boolean operation on two Nodes. See Operator for
// the supported operations.
func (m *Manager) Apply(left, right Node, op Operator) Node {
	if m.checkptr(left) != nil {
		return m.seterrorf("wrong left operand in call to Apply %s", op)
	}
	if m.checkptr(right) != nil {
		return m.seterrorf("wrong right operand in call to Apply %s", op)
	}
	m.applyop = op
	m.initref()
	m.pushref(*left)
	m.pushref(*right)
	res := m.apply(*left, *right)
	m.popref(2)
	return m.retnode(res)
}

func (m *Manager) apply(left, right NodeID) NodeID {
	op := m.applyop
	switch op {
	case OPand:
		if left == right {
			return left
		}
		if left == ZERO || right == ZERO {
			return ZERO
		}
		if left == ONE {
			return right
		}
		if right == ONE {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if left == ONE || right == ONE {
			return ONE
		}
		if left == ZERO {
			return right
		}
		if right == ZERO {
			return left
		}
	case OPxor:
		if left == right {
			return ZERO
		}
		if left == ZERO {
			return right
		}
		if right == ZERO {
			return left
		}
	case OPnand:
		if left == ZERO || right == ZERO {
			return ONE
		}
	case OPnor:
		if left == ONE || right == ONE {
			return ZERO
		}
	case OPimp:
		if left == ZERO {
			return ONE
		}
		if left == ONE {
			return right
		}
		if right == ONE || left == right {
			return ONE
		}
	case OPbiimp:
		if left == right {
			return ONE
		}
		if left == ONE {
			return right
		}
		if right == ONE {
			return left
		}
	case OPdiff:
		if left == right || right == ONE {
			return ZERO
		}
		if right == ZERO {
			return left
		}
	case OPless:
		if left == right || left == ONE {
			return ZERO
		}
		if left == ZERO {
			return right
		}
	case OPinvimp:
		if right == ZERO {
			return ONE
		}
		if right == ONE {
			return left
		}
		if left == ONE || left == right {
			return ONE
		}
	default:
		m.seterrorf("unauthorized operation (%s) in apply", op)
		return -1
	}

	if left < 2 && right < 2 {
		return NodeID(opres[op][left][right])
	}
	if res, ok := m.itec.lookup(left, right, right, int32(op)+1000); ok {
		return res
	}
	leftlvl := m.level(left)
	rightlvl := m.level(right)
	var res NodeID
	var err error
	switch {
	case leftlvl == rightlvl:
		low := m.pushref(m.apply(m.low(left), m.low(right)))
		high := m.pushref(m.apply(m.high(left), m.high(right)))
		res, err = m.makenode(m.nodes[left].variable, low, high)
	case leftlvl < rightlvl:
		low := m.pushref(m.apply(m.low(left), right))
		high := m.pushref(m.apply(m.high(left), right))
		res, err = m.makenode(m.nodes[left].variable, low, high)
	default:
		low := m.pushref(m.apply(left, m.low(right)))
		high := m.pushref(m.apply(left, m.high(right)))
		res, err = m.makenode(m.nodes[right].variable, low, high)
	}
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.itec.insert(left, right, right, int32(op)+1000, res)
	return res
}

// ************************************************************
// Ite (spec.md §4.2)

// Ite computes ite(f,g,h) = (f & g) | (!f & h).
func (m *Manager) Ite(f, g, h Node) Node {
	if m.checkptr(f) != nil {
		return m.seterrorf("wrong operand f in call to Ite")
	}
	if m.checkptr(g) != nil {
		return m.seterrorf("wrong operand g in call to Ite")
	}
	if m.checkptr(h) != nil {
		return m.seterrorf("wrong operand h in call to Ite")
	}
	m.initref()
	m.pushref(*f)
	m.pushref(*g)
	m.pushref(*h)
	res := m.ite(*f, *g, *h)
	m.popref(3)
	return m.retnode(res)
}

func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r {
			return p
		}
		return r
	}
	if q <= r {
		return q
	}
	return r
}

// cofactorLow/cofactorHigh return the low/high cofactor of n with respect to
// the variable at level v: if n's own level is deeper than v, n is its own
// cofactor (it doesn't test v).
func (m *Manager) cofactorLow(v int32, n NodeID) NodeID {
	if m.level(n) > v {
		return n
	}
	return m.low(n)
}

func (m *Manager) cofactorHigh(v int32, n NodeID) NodeID {
	if m.level(n) > v {
		return n
	}
	return m.high(n)
}

func (m *Manager) ite(f, g, h NodeID) NodeID {
	switch {
	case f == ONE:
		return g
	case f == ZERO:
		return h
	case g == h:
		return g
	case g == ONE && h == ZERO:
		return f
	case g == ZERO && h == ONE:
		return m.not(f)
	}
	if res, ok := m.itec.lookup(f, g, h, 0); ok {
		return res
	}
	v := min3(m.level(f), m.level(g), m.level(h))
	low := m.pushref(m.ite(m.cofactorLow(v, f), m.cofactorLow(v, g), m.cofactorLow(v, h)))
	high := m.pushref(m.ite(m.cofactorHigh(v, f), m.cofactorHigh(v, g), m.cofactorHigh(v, h)))
	variable := m.level2var[v]
	res, err := m.makenode(variable, low, high)
	m.popref(2)
	if err != nil {
		m.seterror(err)
		return -1
	}
	m.itec.insert(f, g, h, 0, res)
	return res
}

// ************************************************************
// Derived Boolean operations

// And returns the conjunction of a, b.
func (m *Manager) And(a, b Node) Node { return m.Apply(a, b, OPand) }

// Or returns the disjunction of a, b.
func (m *Manager) Or(a, b Node) Node { return m.Apply(a, b, OPor) }

// Xor returns the exclusive or of a, b.
func (m *Manager) Xor(a, b Node) Node { return m.Apply(a, b, OPxor) }

// Imp returns the implication a -> b.
func (m *Manager) Imp(a, b Node) Node { return m.Apply(a, b, OPimp) }

// Equiv returns the bi-implication a <-> b.
func (m *Manager) Equiv(a, b Node) Node { return m.Apply(a, b, OPbiimp) }

// AndExist computes the relational composition Exists varset . (left & right)
// using a bottom-up AppEx rather than a naive apply followed by a
// quantification.
func (m *Manager) AndExist(left, right, varset Node) Node {
	return m.AppEx(left, right, OPand, varset)
}
