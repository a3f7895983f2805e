// Package codec selects how graph records cross the host boundary.
//
// Every surface that ships JSON out of the engine — the C ABI transport,
// the CLI, box archives — encodes through a Codec. Box archives additionally
// record the codec name in their header and resolve it through the registry
// on import, which makes archives readable without knowing which encoder
// produced them. Names are therefore part of the on-disk contract: once an
// archive has been written under a name, that name must keep decoding the
// same bytes.
//
// Property values carry their own JSON (un)marshaling, so every codec
// produces the same document shape; the choice only affects speed and
// dependency surface.
package codec

import "sort"

// Codec turns records into bytes and back.
//
// Implementations must be stateless and safe for concurrent use; the engine
// shares one instance across calls.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// Name is the stable identifier recorded in archive headers.
	Name() string
}

// Default encodes new output wherever no codec was chosen explicitly.
// Imports ignore it: an archive names its own codec.
var Default Codec = GoJSON{}

var registry = map[string]Codec{}

// Register makes a codec resolvable by name. The built-ins register
// themselves; a host embedding the engine may add its own before opening
// archives that use it. Registering a taken name replaces the previous
// codec, so hosts can swap implementations behind a stable name.
//
// Register is meant for initialization and is not safe to call concurrently
// with ByName.
func Register(c Codec) {
	registry[c.Name()] = c
}

// ByName resolves the codec recorded in an archive header.
func ByName(name string) (Codec, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns the registered codec names, sorted, for diagnostics.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
