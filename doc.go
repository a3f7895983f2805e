// Package graphdb provides an embedded, single-process graph storage engine.
//
// Graphdb persists a labeled property graph — nodes and directed weighted
// edges, each carrying a heterogeneous property map — into chunked binary
// files under a user-named "box" directory, and serves point lookups backed
// by in-memory offset indices. It is designed to be embedded into a host
// application, including via a C ABI (see cmd/libgraphdb).
//
// # Quick Start
//
//	db, err := graphdb.Open("./mybox")
//	if err != nil {
//	    panic(err)
//	}
//	defer db.Close()
//
//	err = db.SaveNodes([]model.Node{{
//	    ID: "A",
//	    Properties: property.Map{"k": property.Int(42)},
//	}})
//
//	n, err := db.LoadNode("A")
//	edges, err := db.LoadEdges("A")
//
// # On-Disk Layout
//
//	<box>/
//	  nodes/nodes_<i>.bin
//	  edges/edges_<j>.bin
//
// Each chunk file holds a u64 record-count header followed by concatenated
// record frames and grows by appending until a 1 MiB budget is reached, at
// which point saves rotate to a new chunk. All on-disk integers are
// fixed-width little-endian, so boxes are portable across architectures;
// boxes written by producers using host-native widths are not readable.
//
// # Limits
//
// A DB handle is not safe for concurrent use and two handles on the same
// box directory are undefined behavior. There are no transactions and no
// crash-atomicity guarantees; durability follows OS buffer semantics on
// file close.
package graphdb
