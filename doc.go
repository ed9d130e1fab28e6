// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package robdd implements a Reduced Ordered Binary Decision Diagram (ROBDD)
manager: a shared, canonical DAG representation of Boolean functions over a
fixed set of variables, together with dynamic variable reordering and a
native on-disk serialization format.

Basics

A Manager owns a fixed number of variables, Varnum, declared when it is
created (using New) and each variable is identified by a VarID in the
interval [0..Varnum). Operations over the DAG return a Node, a pointer to a
"vertex" of the diagram. We use NodeID, a dense integer, to represent the
address of a node, with the convention that 1 (respectively 0) denotes the
constant function True (respectively False).

Unlike a plain unique table, a Manager also keeps track of the current
position of each variable in the order (its level). make_node always stores
the decision variable itself in the node triple; the translation between a
VarID and its current level is kept in two small index arrays so that
dynamic variable ordering can swap two adjacent levels by rewriting only the
nodes at those levels, without renumbering the rest of the DAG.

Automatic memory management

The library is written in pure Go. We take care of resizing and memory
management for the node arena directly in the library, but "external"
references to nodes made by user code are automatically managed by the Go
runtime: a Node's reference count is incremented when we hand a Node out and
decremented by a runtime finalizer when the user's last copy is collected.
Garbage collection of the arena walks from every node with a positive
reference count (the root set) and reclaims everything else.
*/
package robdd
