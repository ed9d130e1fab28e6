// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// configs stores the values of the different tunable parameters of a
// Manager. Instances are built by New from a list of Option functions.
type configs struct {
	varnum          int      // number of declared variables
	nodesize        int      // initial number of nodes in the table
	cachesize       int      // initial cache size (general)
	cacheratio      int      // ratio (%) between cache size and node table, 0 if constant
	maxnodesize     int      // maximum total number of nodes (0 if no limit)
	maxnodeincrease int      // maximum number of nodes added per resize (0 if no limit)
	minfreenodes    int      // minimum % of free nodes to keep after GC before resizing
	schedule        Schedule // DVO schedule, None by default
	shards          int      // default worker count of FromCNFParallel (see WithShards)
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	c.nodesize = 2*varnum + 2
	c.schedule = NoDVO()
	c.shards = 16
	return c
}

// Option is a configuration function applied when creating a Manager, in
// the spirit of the functional-options pattern.
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table. The table can
// grow during computation. By default we create a table large enough to
// hold the two constants and the variables declared at creation time.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize sets a limit on the number of nodes in the Manager. An
// operation trying to raise the number of nodes above this limit fails with
// errMemory. The default value (0) means no limit.
func Maxnodesize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease sets a limit on the increase in size of the node table at
// each resize. The default is about a million nodes; zero removes the
// limit.
func Maxnodeincrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes sets the percentage of free nodes that must remain after a
// garbage collection before we resize the table instead. The default is
// 20%.
func Minfreenodes(ratio int) Option {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries in the computed cache. The
// default is derived from the node table size.
func Cachesize(size int) Option {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio sets a cache ratio (%) so the computed cache grows whenever the
// node table is resized: a ratio of r allocates r entries in the cache for
// every 100 slots in the node table. The default (0) keeps the cache size
// fixed.
func Cacheratio(ratio int) Option {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// WithSchedule sets the DVO schedule run by RunDVO. The default is NoDVO.
// The schedule is consulted only when RunDVO is called; FromCNF and
// FromCNFParallel do not consult it.
func WithSchedule(s Schedule) Option {
	return func(c *configs) {
		c.schedule = s
	}
}

// WithShards sets the worker count FromCNFParallel uses when it is called
// with workers <= 0; that count is then capped at GOMAXPROCS and at the
// number of clauses. Any positive value is accepted; the default is 16.
func WithShards(n int) Option {
	return func(c *configs) {
		if n > 0 {
			c.shards = n
		}
	}
}
