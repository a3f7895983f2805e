// Package storage implements the box engine: the chunked persistence of
// graph records under a box directory and the in-memory offset indices that
// back point lookups.
//
// A box is a directory tree with one subdirectory per record kind:
//
//	<box>/
//	  nodes/nodes_<i>.bin
//	  edges/edges_<j>.bin
//
// Saves append to the tail chunk while the predicted size stays within the
// chunk budget and rotate to a new chunk otherwise. Node ids are unique
// across the box; re-saving an id deletes the old record first. Deleting a
// node rewrites exactly one chunk.
//
// The engine is not safe for concurrent use from multiple goroutines, and
// two engines on the same box directory are undefined behavior. Index builds
// fan out across chunk files internally but return fully merged state.
package storage
