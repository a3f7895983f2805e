// Package model defines the graph records persisted by the storage engine:
// nodes keyed by a string id and directed weighted edges keyed by their
// (from, to) endpoints, each carrying a property map.
//
// Records have a compact binary frame layered on the property codec, with no
// inter-record framing; decoders advance by consuming exactly the encoded
// length. The JSON shapes mirror the host-facing wire contract:
//
//	{"id": "A", "properties": {"k": 42}}
//	{"from": "A", "to": "B", "weight": 1.5, "properties": {}}
package model
