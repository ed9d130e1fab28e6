// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// ScheduleKind names one of the six DVO trigger policies (spec.md §4.3).
type ScheduleKind int

const (
	// ScheduleNone disables DVO entirely.
	ScheduleNone ScheduleKind = iota
	// ScheduleAlwaysOnce runs a single sift sweep, the first time RunDVO
	// is called after construction.
	ScheduleAlwaysOnce
	// ScheduleAlwaysUntilConvergence sweeps repeatedly until one full
	// sweep leaves the live node count unchanged.
	ScheduleAlwaysUntilConvergence
	// ScheduleAtThreshold triggers a single sweep whenever the live node
	// count exceeds Threshold.
	ScheduleAtThreshold
	// ScheduleSiftingAtThreshold is like ScheduleAtThreshold but sweeps
	// until convergence once triggered.
	ScheduleSiftingAtThreshold
	// ScheduleTimeSizeLimit starts once the node count exceeds the
	// threshold, and sweeps until a sweep yields no improvement or the time
	// limit has passed since the first triggered sweep.
	ScheduleTimeSizeLimit
)

// Schedule is the pluggable DVO trigger policy consulted by RunDVO. Build
// one with NoDVO, AlwaysOnceSchedule, AlwaysUntilConvergenceSchedule,
// AtThresholdSchedule, SiftingAtThresholdSchedule or TimeSizeLimitSchedule,
// and pass it to New via WithSchedule.
type Schedule struct {
	kind      ScheduleKind
	threshold int
	timeLimit time.Duration

	ranOnce   bool
	startedAt time.Time
}

// NoDVO disables dynamic reordering. This is the default schedule.
func NoDVO() Schedule { return Schedule{kind: ScheduleNone} }

// AlwaysOnceSchedule runs a single sift sweep, the first time RunDVO is
// called.
func AlwaysOnceSchedule() Schedule { return Schedule{kind: ScheduleAlwaysOnce} }

// AlwaysUntilConvergenceSchedule sweeps repeatedly until a sweep yields no
// improvement in live node count.
func AlwaysUntilConvergenceSchedule() Schedule {
	return Schedule{kind: ScheduleAlwaysUntilConvergence}
}

// AtThresholdSchedule triggers one sift sweep once the live node count
// exceeds threshold.
func AtThresholdSchedule(threshold int) Schedule {
	return Schedule{kind: ScheduleAtThreshold, threshold: threshold}
}

// SiftingAtThresholdSchedule is AtThresholdSchedule with an inner
// convergence loop: once triggered, it sweeps until no improvement.
func SiftingAtThresholdSchedule(threshold int) Schedule {
	return Schedule{kind: ScheduleSiftingAtThreshold, threshold: threshold}
}

// TimeSizeLimitSchedule starts sweeping once the live node count exceeds
// nodeThreshold, and keeps sweeping until a sweep yields no improvement or
// timeLimit (wall time since the first triggered sweep) has passed; the time
// limit is checked after each full sweep. Once it has passed, later RunDVO
// calls run no sweep.
func TimeSizeLimitSchedule(nodeThreshold int, timeLimit time.Duration) Schedule {
	return Schedule{kind: ScheduleTimeSizeLimit, threshold: nodeThreshold, timeLimit: timeLimit}
}

type dvoAction int

const (
	actionNone dvoAction = iota
	actionSweepOnce
	actionSweepUntilConvergence
)

func (s *Schedule) shouldRun(nodeCount int) dvoAction {
	switch s.kind {
	case ScheduleNone:
		return actionNone
	case ScheduleAlwaysOnce:
		if s.ranOnce {
			return actionNone
		}
		return actionSweepOnce
	case ScheduleAlwaysUntilConvergence:
		return actionSweepUntilConvergence
	case ScheduleAtThreshold:
		if nodeCount > s.threshold {
			return actionSweepOnce
		}
		return actionNone
	case ScheduleSiftingAtThreshold:
		if nodeCount > s.threshold {
			return actionSweepUntilConvergence
		}
		return actionNone
	case ScheduleTimeSizeLimit:
		if nodeCount > s.threshold {
			if s.startedAt.IsZero() {
				s.startedAt = time.Now()
			}
			if s.timeLimit > 0 && time.Since(s.startedAt) > s.timeLimit {
				return actionNone
			}
			return actionSweepUntilConvergence
		}
		return actionNone
	default:
		return actionNone
	}
}

func (m *Manager) liveNodeCount() int {
	return len(m.nodes) - m.freenum
}

// swapLevel exchanges the variables at adjacent levels i and i+1, rewriting
// every node at level i that tests the variable now moving up, and
// preserving the NodeID of every such node (spec.md §4.3). The computed
// cache is invalidated since its keys are position-dependent.
func (m *Manager) swapLevel(i int32) error {
	if i < 0 || int(i)+1 >= int(m.varnum) {
		return errors.Errorf("level %d has no successor to swap with", i)
	}
	x := m.level2var[i]
	y := m.level2var[i+1]

	var atLevel []NodeID
	for id := 2; id < len(m.nodes); id++ {
		nid := NodeID(id)
		if m.nodes[nid].low == freeSlot {
			continue
		}
		if m.nodes[nid].variable == x {
			atLevel = append(atLevel, nid)
		}
	}

	for _, n := range atLevel {
		if m.nodes[n].low == freeSlot || m.nodes[n].variable != x {
			// n was reclaimed (and possibly reused) by a gc triggered from
			// a makenode call earlier in this loop.
			continue
		}
		a := m.nodes[n].low
		b := m.nodes[n].high
		aTestsY := a >= 2 && m.nodes[a].variable == y
		bTestsY := b >= 2 && m.nodes[b].variable == y

		if !aTestsY && !bTestsY {
			// Neither child tests y: n's triple (x, a, b) is unaffected by
			// the swap, only its level changes, via var2level/level2var
			// below. Leave the node and the unique table entry as-is.
			continue
		}

		m.delnode(n)

		var a0, a1 NodeID
		if aTestsY {
			a0, a1 = m.nodes[a].low, m.nodes[a].high
		} else {
			a0, a1 = a, a
		}
		var b0, b1 NodeID
		if bTestsY {
			b0, b1 = m.nodes[b].low, m.nodes[b].high
		} else {
			b0, b1 = b, b
		}

		newlow, err := m.makenode(x, a0, b0)
		if err != nil {
			return err
		}
		m.pushref(newlow)
		newhigh, err := m.makenode(x, a1, b1)
		m.popref(1)
		if err != nil {
			return err
		}

		if newlow == newhigh {
			// n is functionally redundant under the new order. It cannot be
			// eliminated outright without breaking the identity of any
			// externally held handle pointing at n, so it is kept as a
			// pass-through (low == high) node instead. This is reachable
			// only through this branch (at least one child tested y), and
			// every permanently-referenced node (the terminals and the
			// Ithvar/NIthvar pair of every variable) has terminal children
			// that never test y, so it always takes the fast path above and
			// never lands here: a pass-through produced here is only ever
			// held by ordinary, gc-eligible references and is reclaimed by
			// the next gbc() once unreferenced.
			m.nodes[n] = node{variable: y, low: newlow, high: newlow, refcou: m.nodes[n].refcou}
		} else {
			m.nodes[n] = node{variable: y, low: newlow, high: newhigh, refcou: m.nodes[n].refcou}
		}
		m.unique[nodeKey{y, m.nodes[n].low, m.nodes[n].high}] = n
	}

	m.var2level[x] = i + 1
	m.var2level[y] = i
	m.level2var[i] = y
	m.level2var[i+1] = x

	m.cachereset()
	m.stats.Swaps++
	return nil
}

// sift moves v to the top level, then to the bottom level, recording the
// live node count at every intermediate position, and settles v at the
// position that produced the smallest count.
func (m *Manager) sift(v VarID) error {
	levels := int(m.varnum)
	sizes := make([]int, levels)
	cur := int(m.var2level[v])
	sizes[cur] = m.liveNodeCount()

	for cur > 0 {
		if err := m.swapLevel(int32(cur - 1)); err != nil {
			return err
		}
		cur--
		sizes[cur] = m.liveNodeCount()
	}
	for cur < levels-1 {
		if err := m.swapLevel(int32(cur)); err != nil {
			return err
		}
		cur++
		sizes[cur] = m.liveNodeCount()
	}

	best := 0
	for k := 1; k < levels; k++ {
		if sizes[k] < sizes[best] {
			best = k
		}
	}
	for cur > best {
		if err := m.swapLevel(int32(cur - 1)); err != nil {
			return err
		}
		cur--
	}
	return nil
}

// Sift runs one full reordering sweep: every variable is sifted once, in
// order of descending current live node count (recomputed once at the
// start of the sweep).
func (m *Manager) Sift() error {
	return m.siftCtx(context.Background())
}

func (m *Manager) siftCtx(ctx context.Context) error {
	m.awaitQuiescent()
	varnum := int(m.varnum)
	counts := make([]int, varnum)
	for id := 2; id < len(m.nodes); id++ {
		if m.nodes[id].low == freeSlot {
			continue
		}
		counts[m.nodes[id].variable]++
	}
	order := make([]VarID, varnum)
	for v := range order {
		order[v] = VarID(v)
	}
	sort.Slice(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	for _, v := range order {
		if err := ctx.Err(); err != nil {
			return ErrDeadlineExceeded
		}
		if err := m.sift(v); err != nil {
			return err
		}
	}
	m.stats.SiftSweeps++
	return nil
}

// RunDVO consults the Manager's configured Schedule and runs whatever sift
// sweeps it calls for. ctx is checked before each variable is sifted and
// between sweeps, not between the adjacent swaps of one sift: a variable's
// sift, once started, runs to completion. If ctx has expired at one of those
// checks, RunDVO stops and returns ErrDeadlineExceeded, leaving the order as
// the last completed sift settled it; no further rollback is done.
func (m *Manager) RunDVO(ctx context.Context) error {
	action := m.schedule.shouldRun(m.liveNodeCount())
	switch action {
	case actionNone:
		return nil
	case actionSweepOnce:
		m.schedule.ranOnce = true
		return m.siftCtx(ctx)
	case actionSweepUntilConvergence:
		for {
			before := m.liveNodeCount()
			if err := m.siftCtx(ctx); err != nil {
				return err
			}
			if m.liveNodeCount() >= before {
				return nil
			}
			if s := m.schedule; s.kind == ScheduleTimeSizeLimit && s.timeLimit > 0 && time.Since(s.startedAt) > s.timeLimit {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return ErrDeadlineExceeded
			}
		}
	default:
		return nil
	}
}
