package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AntoniPochopien/graph-db/chunk"
	"github.com/AntoniPochopien/graph-db/model"
)

var (
	// ErrNotFound is returned when a node id is absent from the node index.
	ErrNotFound = errors.New("node not found")

	// ErrEmptyNodeID is returned when a record carries an empty node id.
	ErrEmptyNodeID = errors.New("node id must not be empty")
)

// Engine owns one box directory. It tracks the highest chunk index per
// record kind, decides between appending and rotating on save, performs
// deletion by chunk rewrite and maintains the in-memory offset indices.
type Engine struct {
	boxPath  string
	nodesDir string
	edgesDir string

	lastNodeChunkIdx int
	lastEdgeChunkIdx int

	nodeIndex map[string]model.Location
	edgeIndex map[string][]model.Location

	logger *slog.Logger
}

// Open prepares the box directory at boxPath, creating the nodes/ and edges/
// subdirectories when absent, and recovers the chunk counters by scanning
// filenames. Indices are not built here; call BuildNodeIndex and
// BuildEdgeIndex explicitly.
func Open(boxPath string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		boxPath:   boxPath,
		nodesDir:  filepath.Join(boxPath, "nodes"),
		edgesDir:  filepath.Join(boxPath, "edges"),
		nodeIndex: make(map[string]model.Location),
		edgeIndex: make(map[string][]model.Location),
		logger:    logger,
	}

	for _, dir := range []string{e.nodesDir, e.edgesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create box dir %s: %w", dir, err)
		}
	}

	var err error
	e.lastNodeChunkIdx, err = chunk.LastIndex(e.nodesDir, chunk.NodePrefix, e.warnBadName)
	if err != nil {
		return nil, err
	}
	e.lastEdgeChunkIdx, err = chunk.LastIndex(e.edgesDir, chunk.EdgePrefix, e.warnBadName)
	if err != nil {
		return nil, err
	}

	logger.Debug("box opened",
		"path", boxPath,
		"last_node_chunk", e.lastNodeChunkIdx,
		"last_edge_chunk", e.lastEdgeChunkIdx,
	)
	return e, nil
}

// BoxPath returns the box root directory.
func (e *Engine) BoxPath() string { return e.boxPath }

func (e *Engine) warnBadName(name string) {
	e.logger.Warn("ignoring file with unparseable chunk name", "name", name)
}

// SaveNodes persists a batch of nodes. An empty batch is a no-op. Input ids
// already present in the node index are deleted first, so no two records
// across all node chunks ever share an id; the node index is left rebuilt in
// that case. Callers that want to read the just-written nodes by id must
// rebuild the node index afterwards.
func (e *Engine) SaveNodes(nodes []model.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	for _, n := range nodes {
		if n.ID == "" {
			return ErrEmptyNodeID
		}
	}

	// Dedup pass. DeleteNode shifts offsets within the rewritten chunk, so
	// the index is rebuilt after each hit to keep later lookups valid.
	for _, n := range nodes {
		if _, ok := e.nodeIndex[n.ID]; !ok {
			continue
		}
		if err := e.DeleteNode(n.ID); err != nil {
			return fmt.Errorf("replace node %q: %w", n.ID, err)
		}
		if err := e.BuildNodeIndex(); err != nil {
			return fmt.Errorf("replace node %q: %w", n.ID, err)
		}
	}

	var payload []byte
	for _, n := range nodes {
		var err error
		payload, err = model.AppendNode(payload, n)
		if err != nil {
			return fmt.Errorf("encode node %q: %w", n.ID, err)
		}
	}

	target, appendMode, err := e.pickTarget(e.nodesDir, chunk.NodePrefix, &e.lastNodeChunkIdx, EstimateNodesSize(nodes))
	if err != nil {
		return err
	}
	if err := writeOrAppend(target, appendMode, uint64(len(nodes)), payload); err != nil {
		return err
	}

	e.logger.Info("saved nodes",
		"count", len(nodes),
		"chunk", filepath.Base(target),
		"append", appendMode,
	)
	return nil
}

// SaveEdges persists a batch of edges with the same append/rotate protocol
// as SaveNodes. Edges are never deduplicated; records with identical
// (from, to) pairs accumulate in insertion order.
func (e *Engine) SaveEdges(edges []model.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	for _, ed := range edges {
		if ed.From == "" || ed.To == "" {
			return ErrEmptyNodeID
		}
	}

	var payload []byte
	for _, ed := range edges {
		var err error
		payload, err = model.AppendEdge(payload, ed)
		if err != nil {
			return fmt.Errorf("encode edge %s->%s: %w", ed.From, ed.To, err)
		}
	}

	target, appendMode, err := e.pickTarget(e.edgesDir, chunk.EdgePrefix, &e.lastEdgeChunkIdx, EstimateEdgesSize(edges))
	if err != nil {
		return err
	}
	if err := writeOrAppend(target, appendMode, uint64(len(edges)), payload); err != nil {
		return err
	}

	e.logger.Info("saved edges",
		"count", len(edges),
		"chunk", filepath.Base(target),
		"append", appendMode,
	)
	return nil
}

// pickTarget chooses the chunk file a save writes to. The tail chunk
// prefix_<lastIdx>.bin takes the batch when it exists and the predicted
// size stays within the chunk budget; otherwise the counter advances and a
// fresh chunk is started. The first chunk of an empty box is index 1.
func (e *Engine) pickTarget(dir, prefix string, lastIdx *int, needed int) (string, bool, error) {
	if *lastIdx >= 1 {
		tail := filepath.Join(dir, chunk.Filename(prefix, *lastIdx))
		info, err := os.Stat(tail)
		switch {
		case err == nil:
			if info.Size()+int64(needed) <= chunk.MaxSize {
				return tail, true, nil
			}
		case !os.IsNotExist(err):
			return "", false, fmt.Errorf("stat chunk %s: %w", tail, err)
		}
	}

	*lastIdx++
	return filepath.Join(dir, chunk.Filename(prefix, *lastIdx)), false, nil
}

func writeOrAppend(target string, appendMode bool, count uint64, payload []byte) error {
	if appendMode {
		return chunk.Append(target, count, payload)
	}
	return chunk.Write(target, count, payload)
}

// DeleteNode removes the node with the given id by rewriting the chunk that
// holds it. A missing id is a no-op, not an error. The node index is stale
// after a rewrite (offsets of records behind the deleted one shift); callers
// must rebuild it. Edge records referencing the node are untouched.
func (e *Engine) DeleteNode(id string) error {
	loc, ok := e.nodeIndex[id]
	if !ok {
		e.logger.Debug("delete of unknown node is a no-op", "id", id)
		return nil
	}

	count, data, err := chunk.Read(loc.File)
	if err != nil {
		return err
	}

	var payload []byte
	kept := uint64(0)
	err = chunk.Walk(data, count, func(off int) (int, error) {
		n, next, err := model.ParseNode(data, off)
		if err != nil {
			return 0, err
		}
		if n.ID != id {
			payload = append(payload, data[off:next]...)
			kept++
		}
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("delete node %q: %w", id, err)
	}

	if err := chunk.Write(loc.File, kept, payload); err != nil {
		return err
	}

	e.logger.Info("deleted node", "id", id, "chunk", filepath.Base(loc.File))
	return nil
}

// LoadNode returns the node with the given id, or ErrNotFound when the id is
// absent from the node index.
func (e *Engine) LoadNode(id string) (model.Node, error) {
	loc, ok := e.nodeIndex[id]
	if !ok {
		return model.Node{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	_, data, err := chunk.Read(loc.File)
	if err != nil {
		return model.Node{}, err
	}

	n, _, err := model.ParseNode(data, int(loc.Offset))
	if err != nil {
		return model.Node{}, fmt.Errorf("load node %q: %w", id, err)
	}
	return n, nil
}

// LoadEdges returns the outgoing edges of the given source node in index
// order: on-disk order within a chunk, ascending chunk index across chunks.
// An unknown source yields an empty slice. Entries whose chunk cannot be
// read or decoded are skipped.
func (e *Engine) LoadEdges(from string) ([]model.Edge, error) {
	locs := e.edgeIndex[from]
	if len(locs) == 0 {
		return []model.Edge{}, nil
	}

	edges := make([]model.Edge, 0, len(locs))
	files := make(map[string][]byte, 1)
	for _, loc := range locs {
		data, ok := files[loc.File]
		if !ok {
			_, d, err := chunk.Read(loc.File)
			if err != nil {
				e.logger.Debug("skipping unreadable edge chunk", "file", loc.File, "error", err)
				files[loc.File] = nil
				continue
			}
			data = d
			files[loc.File] = d
		}
		if data == nil {
			continue
		}

		ed, _, err := model.ParseEdge(data, int(loc.Offset))
		if err != nil {
			e.logger.Warn("skipping undecodable edge record", "file", loc.File, "offset", loc.Offset, "error", err)
			continue
		}
		edges = append(edges, ed)
	}
	return edges, nil
}

// EstimateNodesSize bounds the bytes a node batch adds to a chunk, excluding
// the chunk header.
func EstimateNodesSize(nodes []model.Node) int {
	total := 0
	for _, n := range nodes {
		total += model.EstimateNodeSize(n)
	}
	return total
}

// EstimateEdgesSize bounds the bytes an edge batch adds to a chunk,
// excluding the chunk header.
func EstimateEdgesSize(edges []model.Edge) int {
	total := 0
	for _, ed := range edges {
		total += model.EstimateEdgeSize(ed)
	}
	return total
}
