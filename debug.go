// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// +build !debug

package robdd

// debugEnabled and logLevel gate the verbose instrumentation compiled in by
// the debug build tag. With the default (non-debug) build we disable all of
// it so the hot paths (make_node, ite) pay no bookkeeping cost.
const debugEnabled bool = false
const logLevel int = 0
