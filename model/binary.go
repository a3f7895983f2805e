package model

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/AntoniPochopien/graph-db/property"
)

// AppendNode appends the binary record frame of n to buf.
//
// Frame: [IDLen:8][ID][PropCount:8] then per property [KeyLen:8][Key][Value].
func AppendNode(buf []byte, n Node) ([]byte, error) {
	buf = appendString(buf, n.ID)
	return appendProperties(buf, n.Properties)
}

// ParseNode decodes one node record from data starting at off and returns
// the node together with the offset of the first byte after the record.
func ParseNode(data []byte, off int) (Node, int, error) {
	id, off, err := parseString(data, off)
	if err != nil {
		return Node{}, off, fmt.Errorf("node id: %w", err)
	}
	props, off, err := parseProperties(data, off)
	if err != nil {
		return Node{}, off, fmt.Errorf("node %q: %w", id, err)
	}
	return Node{ID: id, Properties: props}, off, nil
}

// AppendEdge appends the binary record frame of e to buf.
//
// Frame: [FromLen:8][From][ToLen:8][To][Weight:8] then the property map as
// in node records.
func AppendEdge(buf []byte, e Edge) ([]byte, error) {
	buf = appendString(buf, e.From)
	buf = appendString(buf, e.To)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(e.Weight))
	return appendProperties(buf, e.Properties)
}

// ParseEdge decodes one edge record from data starting at off.
func ParseEdge(data []byte, off int) (Edge, int, error) {
	from, off, err := parseString(data, off)
	if err != nil {
		return Edge{}, off, fmt.Errorf("edge from: %w", err)
	}
	to, off, err := parseString(data, off)
	if err != nil {
		return Edge{}, off, fmt.Errorf("edge to: %w", err)
	}
	if len(data)-off < 8 {
		return Edge{}, off, property.NewDecodeError("edge weight", property.ErrShortBuffer)
	}
	weight := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
	off += 8
	props, off, err := parseProperties(data, off)
	if err != nil {
		return Edge{}, off, fmt.Errorf("edge %s->%s: %w", from, to, err)
	}
	return Edge{From: from, To: to, Weight: weight, Properties: props}, off, nil
}

// EstimateNodeSize bounds the encoded record size of n, excluding any chunk
// header.
func EstimateNodeSize(n Node) int {
	return 8 + len(n.ID) + property.EstimateMapSize(n.Properties)
}

// EstimateEdgeSize bounds the encoded record size of e, excluding any chunk
// header.
func EstimateEdgeSize(e Edge) int {
	return 8 + len(e.From) + 8 + len(e.To) + 8 + property.EstimateMapSize(e.Properties)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s)))
	return append(buf, s...)
}

func parseString(data []byte, off int) (string, int, error) {
	if len(data)-off < 8 {
		return "", off, property.NewDecodeError("length prefix", property.ErrShortBuffer)
	}
	n := binary.LittleEndian.Uint64(data[off:])
	off += 8
	if uint64(len(data)-off) < n {
		return "", off, property.NewDecodeError("string body", property.ErrShortBuffer)
	}
	return string(data[off : off+int(n)]), off + int(n), nil
}

func appendProperties(buf []byte, m property.Map) ([]byte, error) {
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(m)))
	for k, v := range m {
		buf = appendString(buf, k)
		var err error
		buf, err = property.AppendValue(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func parseProperties(data []byte, off int) (property.Map, int, error) {
	if len(data)-off < 8 {
		return nil, off, property.NewDecodeError("property count", property.ErrShortBuffer)
	}
	count := binary.LittleEndian.Uint64(data[off:])
	off += 8
	m := make(property.Map, count)
	for range count {
		key, next, err := parseString(data, off)
		if err != nil {
			return nil, off, err
		}
		off = next
		val, next, err := property.ParseValue(data, off)
		if err != nil {
			return nil, off, fmt.Errorf("property %q: %w", key, err)
		}
		off = next
		m[key] = val
	}
	return m, off, nil
}
