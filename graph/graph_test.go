package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoniPochopien/graph-db/model"
	"github.com/AntoniPochopien/graph-db/property"
)

func TestAddAndGetNode(t *testing.T) {
	g := New()

	n := model.Node{ID: "A", Properties: property.Map{"k": property.Int(1)}}
	assert.True(t, g.AddNode(n))
	assert.False(t, g.AddNode(n), "duplicate id is rejected")
	assert.False(t, g.AddNode(model.Node{}), "empty id is rejected")

	got, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, n, got)

	_, ok = g.Node("B")
	assert.False(t, ok)
	assert.Equal(t, 1, g.Len())
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	g := New()
	g.AddNode(model.Node{ID: "A"})

	assert.False(t, g.AddEdge(model.Edge{From: "A", To: "B"}), "missing target")
	assert.False(t, g.AddEdge(model.Edge{From: "B", To: "A"}), "missing source")

	g.AddNode(model.Node{ID: "B"})
	assert.True(t, g.AddEdge(model.Edge{From: "A", To: "B", Weight: 1}))

	e, ok := g.Edge("A", "B")
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Weight)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := New()
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(model.Node{ID: id})
	}
	g.AddEdge(model.Edge{From: "A", To: "B"})
	g.AddEdge(model.Edge{From: "A", To: "C"})
	g.AddEdge(model.Edge{From: "C", To: "B"})

	assert.True(t, g.RemoveNode("B"))
	assert.False(t, g.RemoveNode("B"))

	assert.Len(t, g.Neighbors("A"), 1)
	assert.Empty(t, g.Neighbors("C"))
	assert.Len(t, g.AllEdges(), 1)
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	g.AddNode(model.Node{ID: "A"})
	g.AddNode(model.Node{ID: "B"})
	g.AddEdge(model.Edge{From: "A", To: "B", Weight: 1})
	g.AddEdge(model.Edge{From: "A", To: "B", Weight: 2})

	assert.True(t, g.RemoveEdge("A", "B"), "removes all parallel edges")
	assert.False(t, g.RemoveEdge("A", "B"))
	assert.Empty(t, g.Neighbors("A"))
}

func TestNeighborsOrderAndIsolation(t *testing.T) {
	g := New()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(model.Node{ID: id})
	}
	g.AddEdge(model.Edge{From: "A", To: "B", Weight: 1})
	g.AddEdge(model.Edge{From: "A", To: "C", Weight: 2})
	g.AddEdge(model.Edge{From: "A", To: "D", Weight: 3})

	ns := g.Neighbors("A")
	require.Len(t, ns, 3)
	assert.Equal(t, []string{"B", "C", "D"}, []string{ns[0].To, ns[1].To, ns[2].To})

	// The returned slice is a copy.
	ns[0].To = "mutated"
	fresh := g.Neighbors("A")
	assert.Equal(t, "B", fresh[0].To)
}

func TestNodesPage(t *testing.T) {
	g := New()
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		g.AddNode(model.Node{ID: id})
	}

	assert.Len(t, g.NodesPage(0, 2), 2)
	assert.Len(t, g.NodesPage(3, 10), 2)
	assert.Empty(t, g.NodesPage(5, 10))
	assert.Len(t, g.AllNodes(), 5)
}
