package storage

import (
	"errors"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AntoniPochopien/graph-db/chunk"
	"github.com/AntoniPochopien/graph-db/model"
)

type nodeEntry struct {
	id  string
	loc model.Location
}

type edgeEntry struct {
	from string
	loc  model.Location
}

// BuildNodeIndex rebuilds the node index by scanning every node chunk.
// Chunks are parsed concurrently and merged in ascending chunk-index order,
// so on duplicate ids the record from the highest chunk wins (the save
// protocol prevents duplicates in the first place). A chunk that cannot be
// read or whose header count its payload cannot satisfy is logged and
// skipped.
func (e *Engine) BuildNodeIndex() error {
	refs, err := chunk.List(e.nodesDir, chunk.NodePrefix, e.warnBadName)
	if err != nil {
		return err
	}

	partials := make([][]nodeEntry, len(refs))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, ref := range refs {
		g.Go(func() error {
			path := filepath.Join(e.nodesDir, ref.Name)
			count, data, err := chunk.Read(path)
			if err != nil {
				e.logger.Warn("skipping unreadable node chunk", "file", path, "error", err)
				return nil
			}

			entries := make([]nodeEntry, 0, count)
			err = chunk.Walk(data, count, func(off int) (int, error) {
				n, next, err := model.ParseNode(data, off)
				if err != nil {
					return 0, err
				}
				entries = append(entries, nodeEntry{
					id:  n.ID,
					loc: model.Location{File: path, Offset: int64(off)},
				})
				return next, nil
			})
			if err != nil {
				e.logger.Warn("skipping corrupt node chunk", "file", path, "error", err)
				return nil
			}

			partials[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	idx := make(map[string]model.Location)
	for _, entries := range partials {
		for _, en := range entries {
			idx[en.id] = en.loc
		}
	}
	e.nodeIndex = idx

	e.logger.Debug("node index built", "nodes", len(idx), "chunks", len(refs))
	return nil
}

// BuildEdgeIndex rebuilds the edge index by scanning every edge chunk, with
// the same concurrency, ordering and corruption policy as BuildNodeIndex.
// Each source id maps to its edge locations in write order.
func (e *Engine) BuildEdgeIndex() error {
	refs, err := chunk.List(e.edgesDir, chunk.EdgePrefix, e.warnBadName)
	if err != nil {
		return err
	}

	partials := make([][]edgeEntry, len(refs))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, ref := range refs {
		g.Go(func() error {
			path := filepath.Join(e.edgesDir, ref.Name)
			count, data, err := chunk.Read(path)
			if err != nil {
				e.logger.Warn("skipping unreadable edge chunk", "file", path, "error", err)
				return nil
			}

			entries := make([]edgeEntry, 0, count)
			err = chunk.Walk(data, count, func(off int) (int, error) {
				ed, next, err := model.ParseEdge(data, off)
				if err != nil {
					return 0, err
				}
				entries = append(entries, edgeEntry{
					from: ed.From,
					loc:  model.Location{File: path, Offset: int64(off)},
				})
				return next, nil
			})
			if err != nil {
				e.logger.Warn("skipping corrupt edge chunk", "file", path, "error", err)
				return nil
			}

			partials[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	idx := make(map[string][]model.Location)
	sources := 0
	for _, entries := range partials {
		for _, en := range entries {
			if _, ok := idx[en.from]; !ok {
				sources++
			}
			idx[en.from] = append(idx[en.from], en.loc)
		}
	}
	e.edgeIndex = idx

	e.logger.Debug("edge index built", "sources", sources, "chunks", len(refs))
	return nil
}

// NodeLocation reports where the node with the given id is persisted.
func (e *Engine) NodeLocation(id string) (model.Location, bool) {
	loc, ok := e.nodeIndex[id]
	return loc, ok
}

// EdgeLocations reports where the outgoing edges of the given source node
// are persisted, in index order.
func (e *Engine) EdgeLocations(from string) []model.Location {
	return e.edgeIndex[from]
}

// NodeCount returns the number of indexed nodes.
func (e *Engine) NodeCount() int { return len(e.nodeIndex) }

// EdgeSourceCount returns the number of distinct source ids in the edge
// index.
func (e *Engine) EdgeSourceCount() int { return len(e.edgeIndex) }

// NodeIDs returns the indexed node ids in unspecified order.
func (e *Engine) NodeIDs() []string {
	ids := make([]string, 0, len(e.nodeIndex))
	for id := range e.nodeIndex {
		ids = append(ids, id)
	}
	return ids
}

// ScanNodes walks every node record in the box in index order, calling fn
// for each. Unreadable chunks are skipped; in a chunk that turns out corrupt
// the walk stops at the bad record and the scan moves on to the next chunk,
// so the records before it have already been passed to fn. The scan stops
// at the first error fn returns.
func (e *Engine) ScanNodes(fn func(model.Node) error) error {
	return e.scanChunks(e.nodesDir, chunk.NodePrefix, func(data []byte, off int) (int, error) {
		n, next, err := model.ParseNode(data, off)
		if err != nil {
			return 0, err
		}
		if err := fn(n); err != nil {
			return 0, errStop{err}
		}
		return next, nil
	})
}

// ScanEdges walks every edge record in the box in index order, calling fn
// for each.
func (e *Engine) ScanEdges(fn func(model.Edge) error) error {
	return e.scanChunks(e.edgesDir, chunk.EdgePrefix, func(data []byte, off int) (int, error) {
		ed, next, err := model.ParseEdge(data, off)
		if err != nil {
			return 0, err
		}
		if err := fn(ed); err != nil {
			return 0, errStop{err}
		}
		return next, nil
	})
}

// errStop marks an error raised by a scan callback, as opposed to a decode
// failure. The former aborts the scan, the latter skips the chunk.
type errStop struct{ err error }

func (e errStop) Error() string { return e.err.Error() }
func (e errStop) Unwrap() error { return e.err }

func (e *Engine) scanChunks(dir, prefix string, step func(data []byte, off int) (int, error)) error {
	refs, err := chunk.List(dir, prefix, e.warnBadName)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		path := filepath.Join(dir, ref.Name)
		count, data, err := chunk.Read(path)
		if err != nil {
			e.logger.Warn("skipping unreadable chunk", "file", path, "error", err)
			continue
		}
		err = chunk.Walk(data, count, func(off int) (int, error) {
			return step(data, off)
		})
		if err != nil {
			var stop errStop
			if errors.As(err, &stop) {
				return stop.err
			}
			e.logger.Warn("skipping corrupt chunk", "file", path, "error", err)
		}
	}
	return nil
}
