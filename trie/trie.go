/*
Package trie implements a prefix tree which stores records at the node spelling
their key.

More than one record may be stored for the same key. Records are stored in
insertion order and are removed from the front. Children of a node are kept
sorted by letter, therefore every search in this package is deterministic and
visits keys in lexicographic order.

Tries are not safe for concurrent use.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package trie

import (
	"slices"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography.trie'
func tracer() tracing.Trace {
	return tracing.Select("geography.trie")
}

// Equaler is the constraint for records stored in a trie. Equal is used to
// exclude a record from searches.
type Equaler[T any] interface {
	Equal(T) bool
}

// Node is a node of a prefix tree. A node without a parent is the root of a trie.
//
// Invariant: a node is terminal iff it stores at least one record.
type Node[T Equaler[T]] struct {
	Letter   rune
	terminal bool
	children []*Node[T] // sorted by Letter
	records  []T
}

// New creates a root node labeled with letter.
func New[T Equaler[T]](letter rune) *Node[T] {
	return &Node[T]{Letter: letter}
}

// IsTerminal is true if records are stored at n.
func (n *Node[T]) IsTerminal() bool {
	return n.terminal
}

// IsEmpty is true if n neither stores records nor has children. Empty nodes
// are pruned by their parents.
func (n *Node[T]) IsEmpty() bool {
	return !n.terminal && len(n.children) == 0
}

// Records returns the records stored at n, in insertion order.
func (n *Node[T]) Records() []T {
	return n.records
}

// Child returns the child of n labeled r, or nil.
func (n *Node[T]) Child(r rune) *Node[T] {
	if i, found := n.find(r); found {
		return n.children[i]
	}
	return nil
}

func (n *Node[T]) find(r rune) (int, bool) {
	return slices.BinarySearchFunc(n.children, r, func(child *Node[T], r rune) int {
		return int(child.Letter) - int(r)
	})
}

// Insert stores rec at the node spelled by key, starting below n.
// Missing nodes are created on the way.
// An empty key stores rec at n itself.
func (n *Node[T]) Insert(key string, rec T) {
	node := n
	for _, r := range key {
		i, found := node.find(r)
		if !found {
			child := &Node[T]{Letter: r}
			node.children = slices.Insert(node.children, i, child)
		}
		node = node.children[i]
	}
	node.records = append(node.records, rec)
	node.terminal = true
}

// Contains is true if key, starting below n, spells a terminal node.
func (n *Node[T]) Contains(key string) bool {
	node := n.walk(key)
	return node != nil && node.terminal
}

func (n *Node[T]) walk(key string) *Node[T] {
	node := n
	for _, r := range key {
		if node = node.Child(r); node == nil {
			return nil
		}
	}
	return node
}

// Remove deletes the first record stored at the node spelled by key (starting
// below n). The record is not matched against anything: whichever record has
// been inserted first for key is removed. Nodes which become empty are pruned,
// with the exception of n itself.
//
// Remove returns the removed record and true, or false if key is not present.
func (n *Node[T]) Remove(key string) (T, bool) {
	return n.remove([]rune(key))
}

func (n *Node[T]) remove(key []rune) (rec T, ok bool) {
	if len(key) == 0 {
		if !n.terminal {
			return rec, false
		}
		rec = n.records[0]
		var zero T
		n.records[0] = zero
		n.records = n.records[1:]
		if len(n.records) == 0 {
			n.records = nil
			n.terminal = false
		}
		return rec, true
	}
	i, found := n.find(key[0])
	if !found {
		return rec, false
	}
	child := n.children[i]
	if rec, ok = child.remove(key[1:]); ok && child.IsEmpty() {
		tracer().Debugf("pruning empty node %q", child.Letter)
		n.children = slices.Delete(n.children, i, i+1)
	}
	return rec, ok
}

// Any returns a record stored at n or below. It returns the first record of
// n if n is terminal, otherwise it descends into the first child.
func (n *Node[T]) Any() (rec T, ok bool) {
	node := n
	for {
		if node.terminal {
			return node.records[0], true
		}
		if len(node.children) == 0 {
			return rec, false
		}
		node = node.children[0]
	}
}

// AnyExcluding works like Any, but tries to avoid returning exclude. Exclusion
// is limited to the first two records stored at n itself: if n is terminal and
// its first record equals exclude, the second record (if present) is tried.
// Failing that, the search descends into the first child of n using the
// semantics of Any.
func (n *Node[T]) AnyExcluding(exclude T) (rec T, ok bool) {
	if n.terminal {
		if !n.records[0].Equal(exclude) {
			return n.records[0], true
		}
		if len(n.records) > 1 && !n.records[1].Equal(exclude) {
			return n.records[1], true
		}
	}
	if len(n.children) == 0 {
		return rec, false
	}
	return n.children[0].Any()
}

// Count returns the number of records stored at n or below.
func (n *Node[T]) Count() int {
	count := len(n.records)
	for _, child := range n.children {
		count += child.Count()
	}
	return count
}

// Walk calls f for every record at n or below, depth-first, in letter order.
// Walking stops as soon as f returns false.
func (n *Node[T]) Walk(f func(key string, rec T) bool) {
	n.walkFrom(make([]rune, 0, 32), f)
}

func (n *Node[T]) walkFrom(prefix []rune, f func(string, T) bool) bool {
	for _, rec := range n.records {
		if !f(string(prefix), rec) {
			return false
		}
	}
	for _, child := range n.children {
		if !child.walkFrom(append(prefix, child.Letter), f) {
			return false
		}
	}
	return true
}
