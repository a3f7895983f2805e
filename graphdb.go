package graphdb

import (
	"fmt"

	"github.com/AntoniPochopien/graph-db/codec"
	"github.com/AntoniPochopien/graph-db/model"
	"github.com/AntoniPochopien/graph-db/storage"
)

// DB is an open box handle.
//
// A DB is not safe for concurrent use from multiple goroutines; there are no
// internal locks around engine calls. Multiple handles on different boxes
// are fine, multiple handles on the same box directory are undefined
// behavior.
type DB struct {
	engine *storage.Engine
	codec  codec.Codec
	logger *Logger
}

// Open opens the box at boxPath, creating its directory tree when absent,
// and builds both indices so point lookups work immediately.
func Open(boxPath string, optFns ...Option) (*DB, error) {
	o := options{
		codec:  codec.Default,
		logger: NewLogger(nil),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	logger := o.logger.WithBox(boxPath)

	engine, err := storage.Open(boxPath, logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("open box %s: %w", boxPath, err)
	}

	db := &DB{
		engine: engine,
		codec:  o.codec,
		logger: logger,
	}
	if err := db.BuildNodeIndex(); err != nil {
		return nil, err
	}
	if err := db.BuildEdgeIndex(); err != nil {
		return nil, err
	}
	return db, nil
}

// Path returns the box root directory.
func (db *DB) Path() string { return db.engine.BoxPath() }

// SaveNodes persists a batch of nodes and rebuilds the node index so the
// batch is immediately loadable by id. Ids already present in the box are
// replaced; the replaced records are removed from their chunks first.
func (db *DB) SaveNodes(nodes []model.Node) error {
	if db.engine == nil {
		return ErrClosed
	}
	err := db.engine.SaveNodes(nodes)
	db.logger.LogSave("nodes", len(nodes), err)
	if err != nil {
		return err
	}
	return db.BuildNodeIndex()
}

// SaveEdges persists a batch of edges and rebuilds the edge index.
func (db *DB) SaveEdges(edges []model.Edge) error {
	if db.engine == nil {
		return ErrClosed
	}
	err := db.engine.SaveEdges(edges)
	db.logger.LogSave("edges", len(edges), err)
	if err != nil {
		return err
	}
	return db.BuildEdgeIndex()
}

// DeleteNode removes the node with the given id and rebuilds the node
// index. Deleting an unknown id is a no-op. Edges referencing the node are
// kept; the engine treats edges as independent of node existence.
func (db *DB) DeleteNode(id string) error {
	if db.engine == nil {
		return ErrClosed
	}
	err := db.engine.DeleteNode(id)
	db.logger.LogDelete(id, err)
	if err != nil {
		return err
	}
	return db.BuildNodeIndex()
}

// LoadNode returns the node with the given id, or ErrNotFound.
func (db *DB) LoadNode(id string) (model.Node, error) {
	if db.engine == nil {
		return model.Node{}, ErrClosed
	}
	n, err := db.engine.LoadNode(id)
	db.logger.LogLoad("node", id, err)
	return n, err
}

// LoadEdges returns the outgoing edges of the given source node in storage
// order. An unknown source yields an empty slice, not an error.
func (db *DB) LoadEdges(from string) ([]model.Edge, error) {
	if db.engine == nil {
		return nil, ErrClosed
	}
	edges, err := db.engine.LoadEdges(from)
	db.logger.LogLoad("edges", from, err)
	return edges, err
}

// BuildNodeIndex rebuilds the node index from the chunk files.
func (db *DB) BuildNodeIndex() error {
	if db.engine == nil {
		return ErrClosed
	}
	err := db.engine.BuildNodeIndex()
	db.logger.LogIndexBuild("nodes", db.engine.NodeCount(), err)
	return err
}

// BuildEdgeIndex rebuilds the edge index from the chunk files.
func (db *DB) BuildEdgeIndex() error {
	if db.engine == nil {
		return ErrClosed
	}
	err := db.engine.BuildEdgeIndex()
	db.logger.LogIndexBuild("edges", db.engine.EdgeSourceCount(), err)
	return err
}

// EstimateNodesSize bounds the bytes the batch would add to a node chunk,
// excluding the chunk header.
func (db *DB) EstimateNodesSize(nodes []model.Node) int {
	return storage.EstimateNodesSize(nodes)
}

// ScanNodes walks every persisted node. Used by the export surface.
func (db *DB) ScanNodes(fn func(model.Node) error) error {
	if db.engine == nil {
		return ErrClosed
	}
	return db.engine.ScanNodes(fn)
}

// ScanEdges walks every persisted edge.
func (db *DB) ScanEdges(fn func(model.Edge) error) error {
	if db.engine == nil {
		return ErrClosed
	}
	return db.engine.ScanEdges(fn)
}

// NodeCount returns the number of indexed nodes.
func (db *DB) NodeCount() int {
	if db.engine == nil {
		return 0
	}
	return db.engine.NodeCount()
}

// Close releases the handle. The engine holds no open files between calls,
// so there is nothing to flush; a closed DB rejects further operations.
func (db *DB) Close() error {
	if db.engine == nil {
		return nil
	}
	db.logger.Debug("box closed")
	db.engine = nil
	return nil
}

// SaveNodesJSON decodes a JSON array of nodes and saves it. This is the
// transport the C ABI and the CLI import path use.
func (db *DB) SaveNodesJSON(data []byte) error {
	var nodes []model.Node
	if err := db.codec.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("decode nodes JSON: %w", err)
	}
	return db.SaveNodes(nodes)
}

// SaveEdgesJSON decodes a JSON array of edges and saves it.
func (db *DB) SaveEdgesJSON(data []byte) error {
	var edges []model.Edge
	if err := db.codec.Unmarshal(data, &edges); err != nil {
		return fmt.Errorf("decode edges JSON: %w", err)
	}
	return db.SaveEdges(edges)
}

// LoadNodeJSON loads a node and encodes it as a JSON object.
func (db *DB) LoadNodeJSON(id string) ([]byte, error) {
	n, err := db.LoadNode(id)
	if err != nil {
		return nil, err
	}
	return db.codec.Marshal(n)
}

// LoadEdgesJSON loads the outgoing edges of a node and encodes them as a
// JSON array. An unknown source encodes as an empty array.
func (db *DB) LoadEdgesJSON(from string) ([]byte, error) {
	edges, err := db.LoadEdges(from)
	if err != nil {
		return nil, err
	}
	return db.codec.Marshal(edges)
}

// EstimateNodesSizeJSON decodes a JSON array of nodes and returns its
// chunk-size estimate. Mirrors the C ABI estimate entry point.
func (db *DB) EstimateNodesSizeJSON(data []byte) (int, error) {
	var nodes []model.Node
	if err := db.codec.Unmarshal(data, &nodes); err != nil {
		return 0, fmt.Errorf("decode nodes JSON: %w", err)
	}
	return storage.EstimateNodesSize(nodes), nil
}
