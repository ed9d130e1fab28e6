// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// +build debug

package robdd

import (
	"log"
	"os"
)

const debugEnabled bool = true
const logLevel int = 1

func init() {
	log.SetOutput(os.Stdout)
}

// logTable dumps the whole node arena, one line per slot, including free
// slots. Only compiled in with -tags debug.
func (m *Manager) logTable() {
	if m.err != nil {
		log.Printf("ERROR: %s\n", m.err)
	}
	for k, n := range m.nodes {
		switch {
		case n.refcou == _MAXREFCOUNT:
			log.Printf("%-3d ( %-3d ,  %-3d ,  %-3d) | refcou: max\n", k, n.variable, n.low, n.high)
		case n.refcou == 0:
			log.Printf("%-3d ( %-3d ,  %-3d ,  %-3d) | refcou: 0\n", k, n.variable, n.low, n.high)
		default:
			log.Printf("%-3d ( %-3d ,  %-3d ,  %-3d) | refcou: %d\n", k, n.variable, n.low, n.high, n.refcou)
		}
	}
}
