// Command libgraphdb exposes the graphdb engine through a C ABI.
//
// Build it as a shared library:
//
//	go build -buildmode=c-shared -o libgraphdb.so ./cmd/libgraphdb
//
// The exported surface transports JSON strings in and out. Handles are
// opaque integers backed by a registry, per the cgo pointer-passing rules.
// Failures surface as NULL/0 returns with diagnostics on stderr; there is no
// error-code channel.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	graphdb "github.com/AntoniPochopien/graph-db"
	"github.com/AntoniPochopien/graph-db/config"
)

// registry maps handle values to open boxes. Only the bookkeeping is
// locked; the engine behind a handle keeps its single-caller contract.
var registry = struct {
	sync.Mutex
	m    map[C.uintptr_t]*graphdb.DB
	next C.uintptr_t
}{
	m:    make(map[C.uintptr_t]*graphdb.DB),
	next: 1,
}

func lookup(handle C.uintptr_t) *graphdb.DB {
	registry.Lock()
	defer registry.Unlock()
	return registry.m[handle]
}

// abiLogger carries the diagnostics of failing ABI calls. It starts as a
// stderr text logger and is replaced by the configured logger on every
// graphdb_init.
var abiLogger = graphdb.NewLogger(nil)

func newLogger(cfg config.Config) *graphdb.Logger {
	if cfg.LogFormat == "json" {
		return graphdb.NewJSONLogger(cfg.LogLevel)
	}
	return graphdb.NewTextLogger(cfg.LogLevel)
}

//export graphdb_init
func graphdb_init(boxName *C.char) C.uintptr_t {
	if boxName == nil {
		return 0
	}

	cfg := config.Load()
	logger := newLogger(cfg)
	abiLogger = logger

	db, err := graphdb.Open(C.GoString(boxName), graphdb.WithLogger(logger))
	if err != nil {
		logger.Error("graphdb_init failed", "box", C.GoString(boxName), "error", err)
		return 0
	}

	registry.Lock()
	defer registry.Unlock()
	handle := registry.next
	registry.next++
	registry.m[handle] = db
	return handle
}

//export graphdb_save_nodes
func graphdb_save_nodes(handle C.uintptr_t, jsonData *C.char) {
	db := lookup(handle)
	if db == nil || jsonData == nil {
		return
	}
	if err := db.SaveNodesJSON([]byte(C.GoString(jsonData))); err != nil {
		dbLog(db, "graphdb_save_nodes failed", err)
	}
}

//export graphdb_save_edges
func graphdb_save_edges(handle C.uintptr_t, jsonData *C.char) {
	db := lookup(handle)
	if db == nil || jsonData == nil {
		return
	}
	if err := db.SaveEdgesJSON([]byte(C.GoString(jsonData))); err != nil {
		dbLog(db, "graphdb_save_edges failed", err)
	}
}

//export graphdb_delete_node
func graphdb_delete_node(handle C.uintptr_t, nodeID *C.char) {
	db := lookup(handle)
	if db == nil || nodeID == nil {
		return
	}
	if err := db.DeleteNode(C.GoString(nodeID)); err != nil {
		dbLog(db, "graphdb_delete_node failed", err)
	}
}

//export graphdb_load_node
func graphdb_load_node(handle C.uintptr_t, nodeID *C.char) *C.char {
	db := lookup(handle)
	if db == nil || nodeID == nil {
		return nil
	}
	out, err := db.LoadNodeJSON(C.GoString(nodeID))
	if err != nil {
		dbLog(db, "graphdb_load_node failed", err)
		return nil
	}
	return C.CString(string(out))
}

//export graphdb_load_edges
func graphdb_load_edges(handle C.uintptr_t, nodeID *C.char) *C.char {
	db := lookup(handle)
	if db == nil || nodeID == nil {
		return nil
	}
	out, err := db.LoadEdgesJSON(C.GoString(nodeID))
	if err != nil {
		dbLog(db, "graphdb_load_edges failed", err)
		return nil
	}
	return C.CString(string(out))
}

//export graphdb_build_node_index
func graphdb_build_node_index(handle C.uintptr_t) {
	if db := lookup(handle); db != nil {
		if err := db.BuildNodeIndex(); err != nil {
			dbLog(db, "graphdb_build_node_index failed", err)
		}
	}
}

//export graphdb_build_edge_index
func graphdb_build_edge_index(handle C.uintptr_t) {
	if db := lookup(handle); db != nil {
		if err := db.BuildEdgeIndex(); err != nil {
			dbLog(db, "graphdb_build_edge_index failed", err)
		}
	}
}

//export graphdb_estimate_nodes_size
func graphdb_estimate_nodes_size(handle C.uintptr_t, jsonData *C.char) C.size_t {
	db := lookup(handle)
	if db == nil || jsonData == nil {
		return 0
	}
	size, err := db.EstimateNodesSizeJSON([]byte(C.GoString(jsonData)))
	if err != nil {
		dbLog(db, "graphdb_estimate_nodes_size failed", err)
		return 0
	}
	return C.size_t(size)
}

//export graphdb_free_string
func graphdb_free_string(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

//export graphdb_close
func graphdb_close(handle C.uintptr_t) {
	registry.Lock()
	db := registry.m[handle]
	delete(registry.m, handle)
	registry.Unlock()

	if db != nil {
		_ = db.Close()
	}
}

func dbLog(db *graphdb.DB, msg string, err error) {
	abiLogger.Error(msg, "box", db.Path(), "error", err)
}

func main() {}
