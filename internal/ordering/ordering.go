// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package ordering computes a static, pre-construction variable order for a
// CNF instance: either the identity order or the FORCE heuristic, applied
// once before FromCNF/FromCNFParallel build the DAG.
package ordering

import (
	"sort"

	"github.com/dalzilio/robdd"
)

// Identity returns the order 0, 1, ..., numVars-1 unchanged: the variable
// declaration order from the DIMACS file.
func Identity(numVars int) []robdd.VarID {
	order := make([]robdd.VarID, numVars)
	for i := range order {
		order[i] = robdd.VarID(i)
	}
	return order
}

// Force computes a variable order by the FORCE heuristic (Aloul, Markov &
// Sakallah): repeatedly place each variable at the center of gravity of the
// clauses mentioning it, re-deriving the order from those positions, until
// the total clause span stops improving or maxIterations is reached.
func Force(numVars int, clauses []robdd.Clause, maxIterations int) []robdd.VarID {
	pos := make([]float64, numVars)
	for i := range pos {
		pos[i] = float64(i)
	}
	order := orderFromPositions(pos)
	if maxIterations <= 0 {
		maxIterations = 1000
	}

	bestSpan := span(clauses, pos)
	for iter := 0; iter < maxIterations; iter++ {
		tpos := make([]float64, numVars)
		degree := make([]int, numVars)
		for _, clause := range clauses {
			if len(clause) == 0 {
				continue
			}
			cog := centerOfGravity(clause, pos)
			for _, lit := range clause {
				v := variable(lit)
				tpos[v] += cog
				degree[v]++
			}
		}
		for v := range tpos {
			if degree[v] > 0 {
				tpos[v] /= float64(degree[v])
			} else {
				tpos[v] = pos[v]
			}
		}

		newSpan := span(clauses, tpos)
		pos = tpos
		order = orderFromPositions(pos)
		if newSpan >= bestSpan {
			break
		}
		bestSpan = newSpan
	}
	return order
}

func variable(lit int) int {
	if lit < 0 {
		return -lit - 1
	}
	return lit - 1
}

func centerOfGravity(clause robdd.Clause, pos []float64) float64 {
	var sum float64
	for _, lit := range clause {
		sum += pos[variable(lit)]
	}
	return sum / float64(len(clause))
}

func span(clauses []robdd.Clause, pos []float64) float64 {
	var total float64
	for _, clause := range clauses {
		if len(clause) == 0 {
			continue
		}
		min, max := pos[variable(clause[0])], pos[variable(clause[0])]
		for _, lit := range clause[1:] {
			p := pos[variable(lit)]
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
		}
		total += max - min
	}
	return total
}

// orderFromPositions derives a level order (level -> VarID) by sorting
// variables on their current scalar position.
func orderFromPositions(pos []float64) []robdd.VarID {
	order := make([]robdd.VarID, len(pos))
	for i := range order {
		order[i] = robdd.VarID(i)
	}
	sort.Slice(order, func(i, j int) bool { return pos[order[i]] < pos[order[j]] })
	return order
}
