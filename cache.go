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

// opCache is the computed cache used to memoize ite, apply, restrict,
// quantification and replace results. Every operation keys its entries by
// the operands plus a small tag distinguishing the kind of computation (the
// current Operator for apply, the quantification-set id for exist/appex,
// the Replacer id for replace) so a single cache implementation serves all
// of them, exactly as spec.md §9 prescribes ("clear the entire cache on
// gc" is strategy (a), which is what we implement: the cache carries no
// weak references, it is simply reset whenever the order changes).
type opCache struct {
	table []cacheEntry
}

type cacheEntry struct {
	valid    bool
	a, b, c  NodeID
	tag      int32
	res      NodeID
}

func newOpCache(size int) *opCache {
	c := &opCache{}
	c.init(size)
	return c
}

func (c *opCache) init(size int) {
	size = bdd_prime_gte(size)
	c.table = make([]cacheEntry, size)
}

func (c *opCache) resize(size int) {
	c.init(size)
}

func (c *opCache) reset() {
	for k := range c.table {
		c.table[k].valid = false
	}
}

// mix is a fast, non-cryptographic combination of the operand ids and tag;
// the computed cache does not need collision resistance, only a good
// avalanche so that nearby (a,b,c) do not all land in the same bucket.
func mix(a, b, c NodeID, tag int32) uint64 {
	h := uint64(a)*2654435761 + uint64(b)*40503 + uint64(c)*2246822519 + uint64(uint32(tag))*3266489917
	h ^= h >> 15
	h *= 0xff51afd7ed558ccd
	h ^= h >> 13
	return h
}

func (c *opCache) lookup(a, b, tri NodeID, tag int32) (NodeID, bool) {
	idx := mix(a, b, tri, tag) % uint64(len(c.table))
	e := &c.table[idx]
	if e.valid && e.a == a && e.b == b && e.c == tri && e.tag == tag {
		return e.res, true
	}
	return 0, false
}

func (c *opCache) insert(a, b, tri NodeID, tag int32, res NodeID) {
	idx := mix(a, b, tri, tag) % uint64(len(c.table))
	c.table[idx] = cacheEntry{valid: true, a: a, b: b, c: tri, tag: tag, res: res}
}

// cachereset invalidates every computed cache owned by the Manager. Called
// by gc and by any operation that changes the variable order (swapLevel),
// since cache keys are position-dependent through the level comparisons
// used to build them.
func (m *Manager) cachereset() {
	m.itec.reset()
	m.restrictc.reset()
	m.notc.reset()
	m.quantc.reset()
	m.replacec.reset()
}

func (m *Manager) cacheresize() {
	size := len(m.nodes)
	if m.cacheratio > 0 {
		size = bdd_prime_gte(size * m.cacheratio / 100)
	}
	m.itec.resize(size)
	m.restrictc.resize(size)
	m.notc.resize(size)
	m.quantc.resize(size)
	m.replacec.resize(size)
}
