// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// AndMany returns the conjunction of a sequence of Nodes, True if n is
// empty.
func (m *Manager) AndMany(n ...Node) Node {
	if len(n) == 0 {
		return m.True()
	}
	res := n[0]
	for _, x := range n[1:] {
		res = m.And(res, x)
	}
	return res
}

// OrMany returns the disjunction of a sequence of Nodes, False if n is
// empty.
func (m *Manager) OrMany(n ...Node) Node {
	if len(n) == 0 {
		return m.False()
	}
	res := n[0]
	for _, x := range n[1:] {
		res = m.Or(res, x)
	}
	return res
}
