package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

func init() {
	Register(JSON{})
	Register(GoJSON{})
}

// JSON encodes with the standard library. It is the zero-dependency choice
// and the safest target for archives that must stay readable by other
// tooling.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// GoJSON encodes with github.com/goccy/go-json. It is wire-compatible with
// JSON and noticeably faster on the large node batches the bulk save and
// archive paths move, which is why it is the Default.
type GoJSON struct{}

// Marshal encodes the value to JSON.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }
