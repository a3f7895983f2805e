package graphdb

import (
	"errors"

	"github.com/AntoniPochopien/graph-db/chunk"
	"github.com/AntoniPochopien/graph-db/property"
	"github.com/AntoniPochopien/graph-db/storage"
)

var (
	// ErrNotFound is returned when a node id is absent from the node index.
	ErrNotFound = storage.ErrNotFound

	// ErrEmptyNodeID is returned when a record carries an empty node id.
	ErrEmptyNodeID = storage.ErrEmptyNodeID

	// ErrClosed is returned when a DB is used after Close.
	ErrClosed = errors.New("box is closed")
)

// DecodeError is the typed kind for value or record frames that could not
// be decoded (truncated body, unknown property tag). Match it with
// errors.As; the specific cause is reachable through errors.Unwrap.
type DecodeError = property.DecodeError

// ChunkCorruptError is the typed kind for chunk files whose container
// framing cannot be trusted (truncated header, header count the payload
// cannot satisfy). Index builds log and skip such chunks.
type ChunkCorruptError = chunk.CorruptError
