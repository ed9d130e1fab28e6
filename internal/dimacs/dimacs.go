// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package dimacs parses the DIMACS CNF format into the clause slice the
// robdd package's construction entry points expect.
package dimacs

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dalzilio/robdd"
)

// Instance is a validated CNF formula: a variable count, the clause count
// declared by the "p cnf" header, and the clauses themselves.
type Instance struct {
	NumVars    int
	NumClauses int
	Clauses    []robdd.Clause
}

// ParseFile parses filename as DIMACS CNF.
func ParseFile(filename string) (*Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a DIMACS CNF formula from r: comment lines starting with "c",
// exactly one header line "p cnf <vars> <clauses>", and one clause per
// remaining line, its literals terminated by a trailing 0.
func Parse(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var vars, nclauses int
	headerSeen := false
	var clauses []robdd.Clause

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "c":
			continue
		case "p":
			if headerSeen {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindDuplicateHeader, Line: line, Msg: "duplicate p cnf header"}
			}
			if len(fields) != 4 || fields[1] != "cnf" {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindBadHeaderKey, Line: line, Msg: "expected \"p cnf <vars> <clauses>\""}
			}
			v, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindInvalidNumber, Line: line, Msg: fields[2]}
			}
			c, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindInvalidNumber, Line: line, Msg: fields[3]}
			}
			vars, nclauses = v, c
			clauses = make([]robdd.Clause, 0, nclauses)
			headerSeen = true
		default:
			if !headerSeen {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindMissingHeader, Line: line, Msg: "clause before p cnf header"}
			}
			if fields[len(fields)-1] != "0" {
				return nil, &robdd.ParseError{SubKind: robdd.SubKindMissingHeader, Line: line, Msg: "clause not terminated by 0"}
			}
			clause := make(robdd.Clause, 0, len(fields)-1)
			for _, tok := range fields[:len(fields)-1] {
				lit, err := strconv.Atoi(tok)
				if err != nil {
					return nil, &robdd.ParseError{SubKind: robdd.SubKindInvalidNumber, Line: line, Msg: tok}
				}
				if lit == 0 || lit > vars || lit < -vars {
					return nil, &robdd.ParseError{SubKind: robdd.SubKindInvalidNumber, Line: line, Msg: "literal out of declared range"}
				}
				clause = append(clause, lit)
			}
			clauses = append(clauses, clause)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning dimacs input")
	}
	if !headerSeen {
		return nil, &robdd.ParseError{SubKind: robdd.SubKindMissingHeader, Line: line, Msg: "missing p cnf header"}
	}
	if len(clauses) != nclauses {
		return nil, &robdd.ParseError{SubKind: robdd.SubKindMissingHeader, Line: line, Msg: "clause count does not match header"}
	}
	return &Instance{NumVars: vars, NumClauses: nclauses, Clauses: clauses}, nil
}
