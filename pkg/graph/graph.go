// Package graph assembles the in-memory task dependency graph.
//
// Nodes are tasks keyed by GID; edges run from blocker to blocked task.
// Both are kept in insertion order so that rendered output is stable
// across runs for identical input.
//
// The graph is built once per invocation and discarded after rendering.
// Cycles between distinct tasks are preserved as-is (both output formats
// tolerate them); self-dependencies are dropped.
package graph

import (
	"github.com/asanagraph/asana-deps-graph/pkg/asana"
)

// Edge is a directed dependency edge: From blocks To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph of tasks and dependency edges.
// Not safe for concurrent use; built and rendered by a single goroutine.
type Graph struct {
	order   []string              // node GIDs in insertion order
	nodes   map[string]asana.Task // GID -> task
	edges   []Edge                // edges in insertion order
	edgeSet map[Edge]bool         // dedup index
	dropped []Edge                // edges discarded by policy (reporting only)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]asana.Task),
		edgeSet: make(map[Edge]bool),
	}
}

// Build assembles a graph from the fetched task list.
//
// Each task becomes a node exactly once; a task seen twice keeps its first
// occurrence. Each entry in a task's BlockedBy list becomes an edge
// blocker → task, except:
//   - self-dependencies, which are dropped
//   - edges whose blocker is not a task in the list, which are dropped
//     (dependencies can point outside the queried project)
//   - duplicate (blocker, blocked) pairs, which are deduplicated
func Build(tasks []asana.Task) *Graph {
	g := New()
	for _, t := range tasks {
		g.AddTask(t)
	}
	for _, t := range tasks {
		for _, blocker := range t.BlockedBy {
			g.AddEdge(blocker, t.GID)
		}
	}
	return g
}

// AddTask adds a node for the task. Adding the same GID twice is a no-op,
// so duplicate fetches are idempotent.
func (g *Graph) AddTask(t asana.Task) {
	if _, ok := g.nodes[t.GID]; ok {
		return
	}
	g.nodes[t.GID] = t
	g.order = append(g.order, t.GID)
}

// AddEdge records that the task `from` blocks the task `to`.
// Returns true if the edge was added, false if it was dropped or a duplicate.
func (g *Graph) AddEdge(from, to string) bool {
	e := Edge{From: from, To: to}

	if from == to {
		g.dropped = append(g.dropped, e)
		return false
	}
	_, fromOK := g.nodes[from]
	_, toOK := g.nodes[to]
	if !fromOK || !toOK {
		g.dropped = append(g.dropped, e)
		return false
	}
	if g.edgeSet[e] {
		return false
	}

	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	return true
}

// Tasks returns the nodes in insertion order.
func (g *Graph) Tasks() []asana.Task {
	out := make([]asana.Task, 0, len(g.order))
	for _, gid := range g.order {
		out = append(out, g.nodes[gid])
	}
	return out
}

// Task returns the node with the given GID.
func (g *Graph) Task(gid string) (asana.Task, bool) {
	t, ok := g.nodes[gid]
	return t, ok
}

// Edges returns the deduplicated edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Dropped returns the edges discarded by policy (self-loops and edges
// referencing tasks outside the graph), for diagnostic reporting.
func (g *Graph) Dropped() []Edge {
	return g.dropped
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Blocked reports whether the task has at least one incomplete blocker
// present in the graph. Blockers outside the graph are ignored.
func (g *Graph) Blocked(gid string) bool {
	t, ok := g.nodes[gid]
	if !ok {
		return false
	}
	for _, blocker := range t.BlockedBy {
		if b, ok := g.nodes[blocker]; ok && blocker != gid && !b.Completed {
			return true
		}
	}
	return false
}
