package model

import (
	"github.com/AntoniPochopien/graph-db/property"
)

// Node is a labeled graph vertex. The id is the primary key across a box;
// it must be non-empty when persisted.
type Node struct {
	ID         string       `json:"id"`
	Properties property.Map `json:"properties,omitempty"`
}

// Edge is a directed weighted edge. Within the outgoing adjacency of From it
// is identified by the (From, To) pair; the engine keeps duplicates in
// insertion order.
type Edge struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Weight     float64      `json:"weight"`
	Properties property.Map `json:"properties,omitempty"`
}

// Location identifies a persisted record: the chunk file holding it and the
// byte offset of the record's first byte (its leading length prefix).
type Location struct {
	File   string
	Offset int64
}
