// Package property implements the typed property values attached to graph
// nodes and edges.
//
// A Value is a small tagged union holding one of five kinds:
//
//   - Int: property.Int(42)
//   - Double: property.Double(3.14)
//   - Bool: property.Bool(true)
//   - String: property.String("name")
//   - Map: property.Nested(property.Map{...}) (recursive)
//
// Values serialize to a compact self-describing binary frame (a one-byte tag
// followed by a kind-specific body) and bridge to plain JSON values for the
// host-facing surface. The binary format uses fixed-width little-endian
// integers, so property frames are portable across architectures.
package property
