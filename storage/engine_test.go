package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoniPochopien/graph-db/chunk"
	"github.com/AntoniPochopien/graph-db/model"
	"github.com/AntoniPochopien/graph-db/property"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(t.TempDir(), testLogger())
	require.NoError(t, err)
	return e
}

func node(id string, props property.Map) model.Node {
	return model.Node{ID: id, Properties: props}
}

func TestOpenEmptyBox(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, testLogger())
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dir, "nodes"))
	assert.DirExists(t, filepath.Join(dir, "edges"))
	assert.Equal(t, 0, e.lastNodeChunkIdx)
	assert.Equal(t, 0, e.lastEdgeChunkIdx)

	require.NoError(t, e.BuildNodeIndex())
	require.NoError(t, e.BuildEdgeIndex())
	assert.Equal(t, 0, e.NodeCount())
}

func TestOpenRecoversChunkCounters(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nodes"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "edges"), 0o755))
	for _, name := range []string{"nodes/nodes_1.bin", "nodes/nodes_4.bin", "edges/edges_2.bin"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, chunk.HeaderSize), 0o644))
	}
	// Ignored: bad stem, wrong extension.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes", "nodes_9x.bin"), []byte{0}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes", "nodes_7.tmp"), []byte{0}, 0o644))

	e, err := Open(dir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, e.lastNodeChunkIdx)
	assert.Equal(t, 2, e.lastEdgeChunkIdx)
}

func TestSaveOneNodeAndLoad(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", property.Map{"k": property.Int(42)})}))
	require.NoError(t, e.BuildNodeIndex())

	// First chunk of an empty box is nodes_1.bin; the first record sits
	// right behind the 8-byte header.
	loc, ok := e.NodeLocation("A")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin"), loc.File)
	assert.Equal(t, int64(8), loc.Offset)

	got, err := e.LoadNode("A")
	require.NoError(t, err)
	assert.Equal(t, node("A", property.Map{"k": property.Int(42)}), got)
}

func TestSaveEmptyBatchIsNoop(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes(nil))
	require.NoError(t, e.SaveEdges(nil))

	entries, err := os.ReadDir(filepath.Join(e.BoxPath(), "nodes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 0, e.lastNodeChunkIdx)
	assert.Equal(t, 0, e.lastEdgeChunkIdx)
}

func TestSaveRejectsEmptyID(t *testing.T) {
	e := openTestEngine(t)

	assert.ErrorIs(t, e.SaveNodes([]model.Node{{ID: ""}}), ErrEmptyNodeID)
	assert.ErrorIs(t, e.SaveEdges([]model.Edge{{From: "", To: "B"}}), ErrEmptyNodeID)

	entries, err := os.ReadDir(filepath.Join(e.BoxPath(), "nodes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSequentialSavesAppendToTailChunk(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil)}))
	require.NoError(t, e.SaveNodes([]model.Node{node("B", nil), node("C", nil)}))

	tail := filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin")
	count, _, err := chunk.Read(tail)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	// No second chunk was created.
	_, err = os.Stat(filepath.Join(e.BoxPath(), "nodes", "nodes_2.bin"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, e.BuildNodeIndex())
	for _, id := range []string{"A", "B", "C"} {
		_, err := e.LoadNode(id)
		assert.NoError(t, err, id)
	}
}

func TestSaveRotatesOverBudget(t *testing.T) {
	e := openTestEngine(t)

	big := strings.Repeat("x", 600<<10)
	require.NoError(t, e.SaveNodes([]model.Node{node("A", property.Map{"blob": property.String(big)})}))
	require.NoError(t, e.SaveNodes([]model.Node{node("B", property.Map{"blob": property.String(big)})}))

	// The second batch would push nodes_1.bin past the budget, so it
	// starts nodes_2.bin with its own header.
	count, _, err := chunk.Read(filepath.Join(e.BoxPath(), "nodes", "nodes_2.bin"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	count, _, err = chunk.Read(filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, e.BuildNodeIndex())
	gotA, err := e.LoadNode("A")
	require.NoError(t, err)
	assert.Equal(t, big, gotA.Properties["blob"].S)
	gotB, err := e.LoadNode("B")
	require.NoError(t, err)
	assert.Equal(t, big, gotB.Properties["blob"].S)
}

func TestReopenedBoxAppendsToNewestChunk(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil)}))

	e2, err := Open(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, e2.BuildNodeIndex())
	require.NoError(t, e2.SaveNodes([]model.Node{node("B", nil)}))

	count, _, err := chunk.Read(filepath.Join(dir, "nodes", "nodes_1.bin"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestResaveReplacesNode(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", property.Map{"k": property.Int(1)})}))
	require.NoError(t, e.BuildNodeIndex())
	require.NoError(t, e.SaveNodes([]model.Node{node("A", property.Map{"k": property.Int(2)})}))
	require.NoError(t, e.BuildNodeIndex())

	got, err := e.LoadNode("A")
	require.NoError(t, err)
	assert.Equal(t, property.Int(2), got.Properties["k"])

	// Exactly one record for "A" across all node chunks.
	seen := 0
	require.NoError(t, e.ScanNodes(func(n model.Node) error {
		if n.ID == "A" {
			seen++
		}
		return nil
	}))
	assert.Equal(t, 1, seen)
}

func TestDeleteNode(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{
		node("A", property.Map{"k": property.Int(1)}),
		node("B", property.Map{"k": property.Int(2)}),
		node("C", property.Map{"k": property.Int(3)}),
	}))
	require.NoError(t, e.BuildNodeIndex())

	require.NoError(t, e.DeleteNode("B"))
	require.NoError(t, e.BuildNodeIndex())

	_, err := e.LoadNode("B")
	assert.ErrorIs(t, err, ErrNotFound)

	// Offsets behind the deleted record shifted; the rebuilt index still
	// resolves the survivors.
	gotA, err := e.LoadNode("A")
	require.NoError(t, err)
	assert.Equal(t, property.Int(1), gotA.Properties["k"])
	gotC, err := e.LoadNode("C")
	require.NoError(t, err)
	assert.Equal(t, property.Int(3), gotC.Properties["k"])

	count, _, err := chunk.Read(filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestDeleteUnknownNodeIsNoop(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", property.Map{"k": property.Int(1)})}))
	require.NoError(t, e.BuildNodeIndex())

	path := filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, e.DeleteNode("missing"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "chunk files must stay byte-identical")
}

func TestLoadNodeUnknown(t *testing.T) {
	e := openTestEngine(t)
	require.NoError(t, e.BuildNodeIndex())

	_, err := e.LoadNode("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEdgeFanOut(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveEdges([]model.Edge{
		{From: "A", To: "B", Weight: 1.0},
		{From: "A", To: "C", Weight: 2.0},
		{From: "B", To: "C", Weight: 3.0},
	}))
	require.NoError(t, e.BuildEdgeIndex())

	got, err := e.LoadEdges("A")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].To)
	assert.Equal(t, 1.0, got[0].Weight)
	assert.Equal(t, "C", got[1].To)
	assert.Equal(t, 2.0, got[1].Weight)

	empty, err := e.LoadEdges("Z")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDuplicateEdgesKeepInsertionOrder(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveEdges([]model.Edge{
		{From: "A", To: "B", Weight: 1.0},
		{From: "A", To: "B", Weight: 2.0},
	}))
	require.NoError(t, e.SaveEdges([]model.Edge{
		{From: "A", To: "B", Weight: 3.0},
	}))
	require.NoError(t, e.BuildEdgeIndex())

	got, err := e.LoadEdges("A")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, []float64{got[0].Weight, got[1].Weight, got[2].Weight})
}

func TestEdgeSavesAppendAndRotate(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveEdges([]model.Edge{{From: "A", To: "B", Weight: 1}}))
	require.NoError(t, e.SaveEdges([]model.Edge{{From: "A", To: "C", Weight: 2}}))

	count, _, err := chunk.Read(filepath.Join(e.BoxPath(), "edges", "edges_1.bin"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count, "second bulk save must not obliterate the first")

	big := strings.Repeat("y", 600<<10)
	require.NoError(t, e.SaveEdges([]model.Edge{{From: "A", To: "D", Weight: 3, Properties: property.Map{"blob": property.String(big)}}}))
	require.NoError(t, e.SaveEdges([]model.Edge{{From: "A", To: "E", Weight: 4, Properties: property.Map{"blob": property.String(big)}}}))

	_, err = os.Stat(filepath.Join(e.BoxPath(), "edges", "edges_2.bin"))
	assert.NoError(t, err)

	require.NoError(t, e.BuildEdgeIndex())
	got, err := e.LoadEdges("A")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"B", "C", "D", "E"}, []string{got[0].To, got[1].To, got[2].To, got[3].To})
}

func TestAppendModePredicate(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil)}))
	tail := filepath.Join(e.BoxPath(), "nodes", "nodes_1.bin")
	info, err := os.Stat(tail)
	require.NoError(t, err)

	batch := []model.Node{node("B", property.Map{"k": property.String("v")})}
	if info.Size()+int64(EstimateNodesSize(batch)) <= chunk.MaxSize {
		require.NoError(t, e.SaveNodes(batch))
		count, _, err := chunk.Read(tail)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count, "append mode must be chosen when the estimate fits")
	}
}

func TestIndexSkipsCorruptChunk(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil)}))
	// Write a corrupt second chunk by hand next to the valid one.
	corrupt := filepath.Join(e.BoxPath(), "nodes", "nodes_2.bin")
	bad := make([]byte, chunk.HeaderSize)
	bad[0] = 5 // claims five records, holds none
	require.NoError(t, os.WriteFile(corrupt, bad, 0o644))

	require.NoError(t, e.BuildNodeIndex())
	assert.Equal(t, 1, e.NodeCount())
	_, err := e.LoadNode("A")
	assert.NoError(t, err)
}

func TestDanglingEdgesSurviveNodeDeletion(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil), node("B", nil)}))
	require.NoError(t, e.SaveEdges([]model.Edge{{From: "A", To: "B", Weight: 1}}))
	require.NoError(t, e.BuildNodeIndex())
	require.NoError(t, e.BuildEdgeIndex())

	require.NoError(t, e.DeleteNode("B"))
	require.NoError(t, e.BuildNodeIndex())

	got, err := e.LoadEdges("A")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].To)
}

func TestNodeIndexIsSavedMinusDeleted(t *testing.T) {
	e := openTestEngine(t)

	require.NoError(t, e.SaveNodes([]model.Node{node("A", nil), node("B", nil), node("C", nil)}))
	require.NoError(t, e.BuildNodeIndex())
	require.NoError(t, e.DeleteNode("A"))
	require.NoError(t, e.BuildNodeIndex())
	require.NoError(t, e.SaveNodes([]model.Node{node("D", nil)}))
	require.NoError(t, e.BuildNodeIndex())

	assert.ElementsMatch(t, []string{"B", "C", "D"}, e.NodeIDs())
}
