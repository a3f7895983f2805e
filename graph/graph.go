// Package graph provides an in-memory adjacency-list view of a property
// graph. It is a convenience CRUD facade layered over the model records; the
// storage engine does not depend on it.
package graph

import (
	"github.com/AntoniPochopien/graph-db/model"
)

// Graph is an in-RAM property graph: nodes keyed by id plus an outgoing
// adjacency list per source node. The zero value is not usable; call New.
//
// Like the storage engine, a Graph is not safe for concurrent use.
type Graph struct {
	nodes     map[string]model.Node
	adjacency map[string][]model.Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]model.Node),
		adjacency: make(map[string][]model.Edge),
	}
}

// AddNode inserts a node. It reports false when the id is already present
// or empty; the existing node is not replaced.
func (g *Graph) AddNode(n model.Node) bool {
	if n.ID == "" {
		return false
	}
	if _, ok := g.nodes[n.ID]; ok {
		return false
	}
	g.nodes[n.ID] = n
	return true
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (model.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// RemoveNode deletes a node together with its outgoing adjacency and every
// edge pointing at it. It reports whether the node existed.
func (g *Graph) RemoveNode(id string) bool {
	_, ok := g.nodes[id]
	delete(g.nodes, id)
	delete(g.adjacency, id)

	for from, edges := range g.adjacency {
		kept := edges[:0]
		for _, e := range edges {
			if e.To != id {
				kept = append(kept, e)
			}
		}
		g.adjacency[from] = kept
	}
	return ok
}

// AddEdge inserts a directed edge. Both endpoints must exist as nodes.
func (g *Graph) AddEdge(e model.Edge) bool {
	if _, ok := g.nodes[e.From]; !ok {
		return false
	}
	if _, ok := g.nodes[e.To]; !ok {
		return false
	}
	g.adjacency[e.From] = append(g.adjacency[e.From], e)
	return true
}

// Edge returns the first edge from one node to another.
func (g *Graph) Edge(from, to string) (model.Edge, bool) {
	for _, e := range g.adjacency[from] {
		if e.To == to {
			return e, true
		}
	}
	return model.Edge{}, false
}

// RemoveEdge deletes every edge from one node to another and reports
// whether any existed.
func (g *Graph) RemoveEdge(from, to string) bool {
	edges, ok := g.adjacency[from]
	if !ok {
		return false
	}
	kept := edges[:0]
	for _, e := range edges {
		if e.To != to {
			kept = append(kept, e)
		}
	}
	g.adjacency[from] = kept
	return len(kept) != len(edges)
}

// Neighbors returns the outgoing edges of a node in insertion order.
func (g *Graph) Neighbors(id string) []model.Edge {
	edges := g.adjacency[id]
	out := make([]model.Edge, len(edges))
	copy(out, edges)
	return out
}

// NodesPage returns up to limit nodes starting at offset start. Iteration
// order over the node map is unspecified; the page boundaries are only
// stable between mutations.
func (g *Graph) NodesPage(start, limit int) []model.Node {
	page := make([]model.Node, 0, limit)
	i := 0
	for _, n := range g.nodes {
		if i >= start && len(page) < limit {
			page = append(page, n)
		}
		i++
	}
	return page
}

// AllNodes returns every node in unspecified order.
func (g *Graph) AllNodes() []model.Node {
	out := make([]model.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// AllEdges returns every edge grouped by source node.
func (g *Graph) AllEdges() []model.Edge {
	var out []model.Edge
	for _, edges := range g.adjacency {
		out = append(out, edges...)
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }
