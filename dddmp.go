// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadDDDMPFile reconstructs a Manager and its roots from a .dddmp file (the
// node-sharing BDD exchange format used in the decision-diagram
// literature). Only a subset of the format is accepted: version DDDMP-2.0,
// uncomplemented edges, a single node list terminated by ".end".
func ReadDDDMPFile(filename string) (*Manager, []Node, error) {
	in, err := os.Open(filename)
	if err != nil {
		return nil, nil, ErrIoError
	}
	defer in.Close()
	return ReadDDDMP(in)
}

// ReadDDDMP is the io.Reader-based variant of ReadDDDMPFile.
func ReadDDDMP(r io.Reader) (*Manager, []Node, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	header := map[string][]string{}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == ".nodes" {
			break
		}
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		header[fields[0]] = fields[1:]
	}

	ver, ok := header[".ver"]
	if !ok || len(ver) != 1 || ver[0] != "DDDMP-2.0" {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: "missing or unsupported .ver"}
	}
	nnodesTok, ok := header[".nnodes"]
	if !ok || len(nnodesTok) != 1 {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: ".nnodes missing"}
	}
	nnodes, err := strconv.Atoi(nnodesTok[0])
	if err != nil {
		return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: nnodesTok[0]}
	}
	nvarsTok, ok := header[".nvars"]
	if !ok || len(nvarsTok) != 1 {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: ".nvars missing"}
	}
	nvars, err := strconv.Atoi(nvarsTok[0])
	if err != nil {
		return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: nvarsTok[0]}
	}
	permids, ok := header[".permids"]
	if !ok || len(permids) == 0 {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: ".permids missing"}
	}
	rootidsTok, ok := header[".rootids"]
	if !ok {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: ".rootids missing"}
	}
	if len(rootidsTok) == 0 {
		// The header is well-formed but declares zero roots: a node pool
		// with nothing distinguished as a function to query.
		return nil, nil, ErrNoBdd
	}

	if len(permids) != nvars {
		return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: ".permids length mismatch"}
	}
	ordering := make([]VarID, nvars)
	for lvl, tok := range permids {
		v, err := strconv.Atoi(tok)
		if err != nil || v < 0 || v >= nvars {
			return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: tok}
		}
		ordering[lvl] = VarID(v)
	}

	type rawnode struct {
		v, low, high int
	}
	raw := make(map[int]rawnode, nnodes)
	order := make([]int, 0, nnodes)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == ".end" {
			break
		}
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 5 {
			return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: "expected 5 fields in node line"}
		}
		id, e1 := strconv.Atoi(fields[0])
		v, e2 := strconv.Atoi(fields[2])
		low, e3 := strconv.Atoi(fields[3])
		high, e4 := strconv.Atoi(fields[4])
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: text}
		}
		raw[id] = rawnode{v, low, high}
		order = append(order, id)
	}
	if len(raw) != nnodes {
		return nil, nil, &ParseError{SubKind: SubKindMissingHeader, Line: line, Msg: "node list ended unexpectedly"}
	}

	rootids := make([]int, 0, len(rootidsTok))
	for _, tok := range rootidsTok {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, nil, &ParseError{SubKind: SubKindInvalidNumber, Line: line, Msg: tok}
		}
		rootids = append(rootids, v)
	}

	m, err := New(nvars, ordering)
	if err != nil {
		return nil, nil, err
	}

	// DDDMP terminals are conventionally 1 (true) and -1/0 (false,
	// depending on dialect); we treat any id outside raw as a terminal,
	// with a non-positive id meaning False and a positive one meaning True.
	terminal := func(id int) NodeID {
		if id <= 0 {
			return ZERO
		}
		return ONE
	}

	idmap := make(map[int]NodeID, nnodes)
	m.initref()
	built := 0
	var resolve func(id int) (NodeID, error)
	resolve = func(id int) (NodeID, error) {
		if nid, ok := idmap[id]; ok {
			return nid, nil
		}
		nd, ok := raw[id]
		if !ok {
			return terminal(id), nil
		}
		low, err := resolve(nd.low)
		if err != nil {
			return -1, err
		}
		m.pushref(low)
		high, err := resolve(nd.high)
		if err != nil {
			return -1, err
		}
		if nd.v < 0 || nd.v >= nvars {
			return -1, &ParseError{SubKind: SubKindInvalidNumber, Msg: "variable out of range"}
		}
		nid, err := m.makenode(VarID(nd.v), low, high)
		m.popref(1)
		if err != nil {
			return -1, err
		}
		idmap[id] = nid
		m.pushref(nid)
		built++
		return nid, nil
	}

	for _, id := range order {
		if _, err := resolve(id); err != nil {
			return nil, nil, err
		}
	}

	roots := make([]Node, len(rootids))
	for k, id := range rootids {
		nid, err := resolve(id)
		if err != nil {
			return nil, nil, err
		}
		roots[k] = m.retnode(nid)
	}
	m.popref(built)
	return m, roots, nil
}
