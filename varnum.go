// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "github.com/pkg/errors"

// ExtVarnum extends the number of declared variables with num extra
// variables, appended at the bottom of the current level order. It is meant
// for incremental construction, where the final variable count is not known
// ahead of the call to New.
func (m *Manager) ExtVarnum(num int) error {
	if num < 0 || int(m.varnum)+num > int(_MAXVAR) {
		err := errors.Errorf("bad number of variables (%d) in ExtVarnum", num)
		m.seterror(err)
		return err
	}
	if num == 0 {
		return nil
	}
	oldnum := int(m.varnum)
	newnum := oldnum + num

	newvar2level := make([]int32, newnum)
	copy(newvar2level, m.var2level)
	newlevel2var := make([]VarID, newnum)
	copy(newlevel2var, m.level2var)
	for k := oldnum; k < newnum; k++ {
		newvar2level[k] = int32(k)
		newlevel2var[k] = VarID(k)
	}
	m.var2level = newvar2level
	m.level2var = newlevel2var
	m.varnum = int32(newnum)

	newvarset := make([][2]NodeID, newnum)
	copy(newvarset, m.varset)
	m.varset = newvarset

	m.initref()
	for v := oldnum; v < newnum; v++ {
		lo, err := m.makenode(VarID(v), ZERO, ONE)
		if err != nil {
			return err
		}
		m.pushref(lo)
		hi, err := m.makenode(VarID(v), ONE, ZERO)
		if err != nil {
			return err
		}
		m.popref(1)
		m.nodes[lo].refcou = _MAXREFCOUNT
		m.nodes[hi].refcou = _MAXREFCOUNT
		m.varset[v] = [2]NodeID{lo, hi}
	}

	m.quantset = make([]int32, newnum)
	m.quantsetID = 0
	m.restrictset = make([]int32, newnum)
	m.restrictval = make([]int8, newnum)
	m.restrictsetID = 0

	if logLevel > 0 {
		m.log().Debugf("extended varnum to %d", m.varnum)
	}
	return nil
}
