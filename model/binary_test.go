package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoniPochopien/graph-db/property"
)

func TestNodeRoundTrip(t *testing.T) {
	n := Node{
		ID: "user:1",
		Properties: property.Map{
			"name":  property.String("Ann"),
			"age":   property.Int(34),
			"score": property.Double(9.5),
			"tags":  property.Nested(property.Map{"vip": property.Bool(true)}),
		},
	}

	buf, err := AppendNode(nil, n)
	require.NoError(t, err)

	got, next, err := ParseNode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), next)
	assert.Equal(t, n, got)
}

func TestNodeRoundTripEmptyProperties(t *testing.T) {
	buf, err := AppendNode(nil, Node{ID: "A"})
	require.NoError(t, err)

	got, _, err := ParseNode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)
	assert.Empty(t, got.Properties)
}

func TestEdgeRoundTrip(t *testing.T) {
	e := Edge{
		From:   "A",
		To:     "B",
		Weight: 1.75,
		Properties: property.Map{
			"label": property.String("follows"),
		},
	}

	buf, err := AppendEdge(nil, e)
	require.NoError(t, err)

	got, next, err := ParseEdge(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), next)
	assert.Equal(t, e, got)
}

func TestParseTruncatedRecords(t *testing.T) {
	nbuf, err := AppendNode(nil, Node{ID: "A", Properties: property.Map{"k": property.Int(1)}})
	require.NoError(t, err)
	ebuf, err := AppendEdge(nil, Edge{From: "A", To: "B", Weight: 1})
	require.NoError(t, err)

	for n := 0; n < len(nbuf); n++ {
		_, _, err := ParseNode(nbuf[:n], 0)
		assert.ErrorIs(t, err, property.ErrShortBuffer, "node truncated at %d", n)

		var de *property.DecodeError
		assert.ErrorAs(t, err, &de, "node truncated at %d", n)
	}
	for n := 0; n < len(ebuf); n++ {
		_, _, err := ParseEdge(ebuf[:n], 0)
		assert.ErrorIs(t, err, property.ErrShortBuffer, "edge truncated at %d", n)
	}
}

func TestRecordsDecodeMidBuffer(t *testing.T) {
	a := Node{ID: "A", Properties: property.Map{"k": property.Int(1)}}
	b := Node{ID: "B", Properties: property.Map{"k": property.Int(2)}}

	buf, err := AppendNode(nil, a)
	require.NoError(t, err)
	split := len(buf)
	buf, err = AppendNode(buf, b)
	require.NoError(t, err)

	gotA, next, err := ParseNode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, split, next)
	assert.Equal(t, a, gotA)

	gotB, next, err := ParseNode(buf, next)
	require.NoError(t, err)
	assert.Equal(t, len(buf), next)
	assert.Equal(t, b, gotB)
}

func TestEstimatesCoverEncoding(t *testing.T) {
	n := Node{ID: "node-with-long-id", Properties: property.Map{
		"a": property.String("value"),
		"b": property.Nested(property.Map{"c": property.Int(1)}),
	}}
	e := Edge{From: "A", To: "B", Weight: 0.5, Properties: property.Map{
		"label": property.String("x"),
	}}

	nbuf, err := AppendNode(nil, n)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, EstimateNodeSize(n), len(nbuf))

	ebuf, err := AppendEdge(nil, e)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, EstimateEdgeSize(e), len(ebuf))
}

func TestNodeJSONShape(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"A","properties":{"k":42}}`), &n))
	assert.Equal(t, "A", n.ID)
	assert.Equal(t, property.Int(42), n.Properties["k"])

	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"A","properties":{"k":42}}`, string(b))
}

func TestEdgeJSONShape(t *testing.T) {
	var e Edge
	require.NoError(t, json.Unmarshal([]byte(`{"from":"A","to":"B","weight":2.5,"properties":{"since":2020}}`), &e))
	assert.Equal(t, Edge{
		From:       "A",
		To:         "B",
		Weight:     2.5,
		Properties: property.Map{"since": property.Int(2020)},
	}, e)
}
