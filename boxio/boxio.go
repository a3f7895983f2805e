// Package boxio moves whole boxes in and out of the engine as
// self-describing archive streams.
//
// An archive starts with a fixed header (magic, format version, compression
// scheme, codec name) followed by the codec-encoded graph payload,
// optionally compressed. The header makes archives readable without knowing
// how they were produced; the codec is selected by the recorded name on
// import.
package boxio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	graphdb "github.com/AntoniPochopien/graph-db"
	"github.com/AntoniPochopien/graph-db/codec"
	"github.com/AntoniPochopien/graph-db/model"
)

// Compression selects the archive payload compression.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd compresses the payload with zstd.
	CompressionZstd
	// CompressionLZ4 compresses the payload with lz4.
	CompressionLZ4
)

// ParseCompression maps a scheme name ("none", "zstd", "lz4") to its
// Compression value.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression scheme: %q", name)
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	archiveMagic   = [4]byte{'G', 'B', 'X', '0'}
	archiveVersion = uint16(1)
)

// ErrBadArchive is returned when an archive header cannot be parsed.
var ErrBadArchive = errors.New("invalid box archive")

// Archive is the payload document of an export.
type Archive struct {
	ID    string       `json:"id"`
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

// Options configures Export.
type Options struct {
	// Compression selects the payload compression scheme.
	Compression Compression

	// Codec encodes the payload. Defaults to codec.Default; the codec name
	// is recorded in the archive header.
	Codec codec.Codec
}

// Export writes the full contents of the box — every node and every edge —
// to w as one archive. The archive id is a fresh UUID, recorded in the
// payload so round-trips are traceable in host logs.
func Export(db *graphdb.DB, w io.Writer, optFns ...func(*Options)) error {
	opts := Options{Codec: codec.Default}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	archive := Archive{ID: uuid.NewString()}
	err := db.ScanNodes(func(n model.Node) error {
		archive.Nodes = append(archive.Nodes, n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("export nodes: %w", err)
	}
	err = db.ScanEdges(func(e model.Edge) error {
		archive.Edges = append(archive.Edges, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("export edges: %w", err)
	}

	payload, err := opts.Codec.Marshal(archive)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	if err := writeHeader(w, opts.Compression, opts.Codec.Name()); err != nil {
		return err
	}
	return writePayload(w, opts.Compression, payload)
}

// Import reads one archive from r and bulk-saves its contents into the box.
// Nodes are saved before edges. Edges are not checked against the imported
// nodes, so dangling edges in the archive stay dangling in the box.
func Import(db *graphdb.DB, r io.Reader) (Archive, error) {
	compression, codecName, err := readHeader(r)
	if err != nil {
		return Archive{}, err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return Archive{}, fmt.Errorf("%w: unknown codec %q", ErrBadArchive, codecName)
	}

	payload, err := readPayload(r, compression)
	if err != nil {
		return Archive{}, err
	}

	var archive Archive
	if err := c.Unmarshal(payload, &archive); err != nil {
		return Archive{}, fmt.Errorf("decode archive: %w", err)
	}

	if err := db.SaveNodes(archive.Nodes); err != nil {
		return Archive{}, fmt.Errorf("import nodes: %w", err)
	}
	if err := db.SaveEdges(archive.Edges); err != nil {
		return Archive{}, fmt.Errorf("import edges: %w", err)
	}
	return archive, nil
}

func writeHeader(w io.Writer, compression Compression, codecName string) error {
	buf := make([]byte, 0, len(archiveMagic)+5+len(codecName))
	buf = append(buf, archiveMagic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, archiveVersion)
	buf = append(buf, byte(compression))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(codecName)))
	buf = append(buf, codecName...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write archive header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (Compression, string, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, "", fmt.Errorf("%w: missing magic", ErrBadArchive)
	}
	if magic != archiveMagic {
		return 0, "", fmt.Errorf("%w: bad magic", ErrBadArchive)
	}

	var fixed [5]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return 0, "", fmt.Errorf("%w: truncated header", ErrBadArchive)
	}
	version := binary.LittleEndian.Uint16(fixed[0:2])
	if version != archiveVersion {
		return 0, "", fmt.Errorf("%w: unsupported version %d", ErrBadArchive, version)
	}
	compression := Compression(fixed[2])
	nameLen := binary.LittleEndian.Uint16(fixed[3:5])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return 0, "", fmt.Errorf("%w: truncated codec name", ErrBadArchive)
	}
	return compression, string(name), nil
}

func writePayload(w io.Writer, compression Compression, payload []byte) error {
	switch compression {
	case CompressionNone:
		_, err := w.Write(payload)
		return err
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if _, err := enc.Write(payload); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case CompressionLZ4:
		enc := lz4.NewWriter(w)
		if _, err := enc.Write(payload); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown compression scheme: %d", compression)
	}
}

func readPayload(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return io.ReadAll(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(r))
	default:
		return nil, fmt.Errorf("%w: unknown compression scheme %d", ErrBadArchive, compression)
	}
}
