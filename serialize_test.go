// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"bytes"
	"math/rand"
	"testing"
)

// TestS5XorRoundTrip checks scenario S5: serializing and reloading
// x1 ^ x2 ^ x3 yields a BDD with sat_count = 4 and 3 decision nodes.
func TestS5XorRoundTrip(t *testing.T) {
	m := newTestManager(t, 3)
	a, b, c := m.Ithvar(0), m.Ithvar(1), m.Ithvar(2)
	f := m.Xor(m.Xor(a, b), c)

	var buf bytes.Buffer
	if err := m.Write(&buf, f); err != nil {
		t.Fatalf("Write: %s", err)
	}

	m2, roots, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	g := roots[0]

	if got := m2.Satcount(g).Int64(); got != 4 {
		t.Errorf("sat_count = %d, want 4", got)
	}
	if got := m2.NodeCount(g); got != 3 {
		t.Errorf("node_count = %d, want 3", got)
	}
	canonical(t, m2)
	orderRespected(t, m2)
}

// TestSerializeRoundTripPreservesSatcount checks property 5: writing a
// random formula and reloading it preserves sat_count, regardless of the
// internal numbering assigned by the reloading Manager.
func TestSerializeRoundTripPreservesSatcount(t *testing.T) {
	const varnum = 6
	m := newTestManager(t, varnum)
	rng := rand.New(rand.NewSource(7))
	vars := make([]Node, varnum)
	for i := range vars {
		vars[i] = m.Ithvar(i)
	}

	f := m.From(false)
	for i := 0; i < 15; i++ {
		v := vars[rng.Intn(varnum)]
		if rng.Intn(2) == 0 {
			v = m.Not(v)
		}
		switch rng.Intn(3) {
		case 0:
			f = m.And(f, v)
		case 1:
			f = m.Or(f, v)
		default:
			f = m.Xor(f, v)
		}
	}
	want := m.Satcount(f)

	var buf bytes.Buffer
	if err := m.Write(&buf, f); err != nil {
		t.Fatalf("Write: %s", err)
	}
	m2, roots, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	got := m2.Satcount(roots[0])
	if want.Cmp(got) != 0 {
		t.Errorf("sat_count changed across round trip: %s -> %s", want, got)
	}
	canonical(t, m2)
	orderRespected(t, m2)
}

func TestWriteDotProducesValidGraph(t *testing.T) {
	m := newTestManager(t, 2)
	a, b := m.Ithvar(0), m.Ithvar(1)
	f := m.And(a, b)

	var buf bytes.Buffer
	if err := m.WriteDot(&buf, f); err != nil {
		t.Fatalf("WriteDot: %s", err)
	}
	out := buf.String()
	if !bytes.HasPrefix(buf.Bytes(), []byte("digraph G {")) {
		t.Errorf("output does not start with digraph header: %q", out)
	}
}
