package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntoniPochopien/graph-db/model"
	"github.com/AntoniPochopien/graph-db/property"
)

func TestBuiltinsResolveByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)

	assert.Subset(t, Names(), []string{"json", "go-json"})
}

type renamed struct{ JSON }

func (renamed) Name() string { return "json-v2" }

func TestRegisterResolvesCustomCodec(t *testing.T) {
	Register(renamed{})

	c, ok := ByName("json-v2")
	require.True(t, ok)
	assert.Equal(t, "json-v2", c.Name())
}

func TestCodecsAgreeOnRecords(t *testing.T) {
	nodes := []model.Node{
		{ID: "A", Properties: property.Map{"k": property.Int(42)}},
		{ID: "B", Properties: property.Map{
			"nested": property.Nested(property.Map{"x": property.Double(0.5)}),
		}},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b, err := c.Marshal(nodes)
		require.NoError(t, err, c.Name())

		var got []model.Node
		require.NoError(t, c.Unmarshal(b, &got), c.Name())
		assert.Equal(t, nodes, got, c.Name())
	}
}
