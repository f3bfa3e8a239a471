// Package includegraph implements IncludeGraph: a per-translation-unit
// directed graph of file->file #include edges, used to decide which direct
// includes of a root file are unneeded. Unused is a genuine Bellman-Ford
// shortest-path relaxation over unit edge weights (spec.md 4.6) — a
// deliberate replacement of original_source/analyze/includes.rs's simpler
// transitive-closure "flatten" scheme, which this tool does not reproduce.
package includegraph

import "github.com/wrenger/unclude/internal/fileid"

const infinity = int(^uint(0) >> 1)

// node is one file's graph state: its outgoing edges, whether a
// declaration in it was referenced from the root, and its shortest-path
// distance/predecessor from the root once Unused has run.
type node struct {
	outgoing map[fileid.ID]bool
	used     bool
	cost     int
	pred     fileid.ID
}

// Graph is an IncludeGraph: constructed for one translation unit, queried,
// then discarded, per spec.md's FileId ownership note.
type Graph struct {
	nodes map[fileid.ID]*node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: map[fileid.ID]*node{}}
}

func (g *Graph) get(id fileid.ID) *node {
	n, ok := g.nodes[id]
	if !ok {
		n = &node{outgoing: map[fileid.ID]bool{}, cost: infinity}
		g.nodes[id] = n
	}
	return n
}

// Insert adds a directed from->to edge, creating nodes lazily.
func (g *Graph) Insert(from, to fileid.ID) {
	g.get(from).outgoing[to] = true
	g.get(to) // ensure to exists even with no outgoing edges of its own
}

// MarkUsed records that a declaration in file was referenced from the TU's
// main file, creating the node lazily.
func (g *Graph) MarkUsed(file fileid.ID) {
	g.get(file).used = true
}

// Outgoing returns the direct successors of file.
func (g *Graph) Outgoing(file fileid.ID) []fileid.ID {
	n, ok := g.nodes[file]
	if !ok {
		return nil
	}
	out := make([]fileid.ID, 0, len(n.outgoing))
	for id := range n.outgoing {
		out = append(out, id)
	}
	return out
}

// Used reports whether file was marked used.
func (g *Graph) Used(file fileid.ID) bool {
	n, ok := g.nodes[file]
	return ok && n.used
}

// Unused computes, via single-source shortest paths from root with unit
// edge weights, the subset of root's direct includes that justify no used
// file. This mutates the graph's cost/pred state (spec.md 9: exposed as a
// mutating operation, not a read-only query, to make that explicit).
//
// Algorithm:
//  1. Every node starts at cost=infinity, pred=zero.
//  2. root.cost = 0, root.pred = root.
//  3. Each direct successor v of root gets cost=1, pred=v — its own
//     representative on paths that go through it.
//  4. Relax every edge |V|-1 times: u.cost+1 < v.cost => v.cost, v.pred updated.
//  5. unused := outgoing(root); remove the pred of every used node; return the rest.
func (g *Graph) Unused(root fileid.ID) []fileid.ID {
	for _, n := range g.nodes {
		n.cost = infinity
		n.pred = fileid.ID{}
	}

	rootNode := g.get(root)
	rootNode.cost = 0
	rootNode.pred = root

	for succ := range rootNode.outgoing {
		s := g.get(succ)
		s.cost = 1
		s.pred = succ
	}

	for i := 0; i < len(g.nodes)-1; i++ {
		changed := false
		for u, un := range g.nodes {
			if un.cost == infinity {
				continue
			}
			for v := range un.outgoing {
				vn := g.get(v)
				if un.cost+1 < vn.cost {
					vn.cost = un.cost + 1
					vn.pred = un.pred
					changed = true
				}
				_ = u
			}
		}
		if !changed {
			break
		}
	}

	unused := map[fileid.ID]bool{}
	for succ := range rootNode.outgoing {
		unused[succ] = true
	}
	for _, n := range g.nodes {
		if n.used && !n.pred.IsZero() {
			delete(unused, n.pred)
		}
	}

	out := make([]fileid.ID, 0, len(unused))
	for id := range unused {
		out = append(out, id)
	}
	return out
}
