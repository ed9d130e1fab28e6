// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package robdd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
)

// Print returns a one-line description of node n: its id, level and
// children, or a textual error if n is invalid.
func (m *Manager) Print(n Node) string {
	if m.err != nil {
		return fmt.Sprintf("node %v: error %s", n, m.err)
	}
	if m.checkptr(n) != nil {
		return fmt.Sprintf("error (%v not a valid handle)", n)
	}
	switch *n {
	case ZERO:
		return "False"
	case ONE:
		return "True"
	}
	nd := m.nodes[*n]
	return fmt.Sprintf("(%d[var %d, level %d] ? %d : %d)", *n, nd.variable, m.level(*n), nd.high, nd.low)
}

// PrintSet writes a tabular dump of every node reachable from n to the
// standard output.
func (m *Manager) PrintSet(n Node) {
	m.print(os.Stdout, n)
}

// PrintAll writes a tabular dump of every live node of the arena, whether
// reachable from a handle or not, to the standard output.
func (m *Manager) PrintAll() {
	m.printAll(os.Stdout)
}

func (m *Manager) print(w io.Writer, n Node) error {
	if m.err != nil {
		fmt.Fprintf(w, "ERROR: %s\n", m.err)
		return m.err
	}
	if m.checkptr(n) != nil {
		return ErrInvalidHandle
	}
	switch *n {
	case ZERO:
		fmt.Fprintln(w, "False")
		return nil
	case ONE:
		fmt.Fprintln(w, "True")
		return nil
	}
	fmt.Fprintf(w, "node: %d\n", *n)
	cnodes := m.markcount(*n)
	ids := make([]int, 0, cnodes)
	for i := 2; i < len(m.nodes); i++ {
		if m.ismarked(NodeID(i)) {
			m.unmarknode(NodeID(i))
			ids = append(ids, i)
		}
	}
	m.printTable(w, ids)
	return nil
}

func (m *Manager) printAll(w io.Writer) {
	ids := make([]int, 0, len(m.nodes))
	for i := 2; i < len(m.nodes); i++ {
		if m.nodes[i].low != freeSlot {
			ids = append(ids, i)
		}
	}
	m.printTable(w, ids)
}

func (m *Manager) printTable(w io.Writer, ids []int) {
	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	sort.Ints(ids)
	for _, id := range ids {
		nd := m.nodes[id]
		fmt.Fprintf(tw, "%d\t[var %d, level %d]\t? %d\t: %d\n", id, nd.variable, m.level(NodeID(id)), nd.high, nd.low)
	}
	tw.Flush()
}
