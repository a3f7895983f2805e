package property

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownTag is the cause recorded when a value frame starts with a
	// tag byte greater than KindMap.
	ErrUnknownTag = errors.New("unknown property tag")

	// ErrShortBuffer is the cause recorded when a value frame is truncated.
	ErrShortBuffer = errors.New("short buffer for property value")
)

// DecodeError indicates a value or record frame that could not be decoded.
//
// The specific cause (ErrUnknownTag, ErrShortBuffer) can be accessed via
// errors.Unwrap, so callers can match the decode kind with errors.As and the
// cause with errors.Is.
type DecodeError struct {
	What  string // the frame element being decoded
	cause error
}

func (e *DecodeError) Error() string { return "decode " + e.What + ": " + e.cause.Error() }

func (e *DecodeError) Unwrap() error { return e.cause }

// NewDecodeError wraps a cause as a DecodeError. It exists for the record
// decoders layered on this codec; value decoding constructs its own.
func NewDecodeError(what string, cause error) error {
	return &DecodeError{What: what, cause: cause}
}

// AppendValue appends the binary frame of v to buf.
//
// Frame: [Tag:1][Body]. Bodies: Int 8 bytes LE, Double 8 bytes LE (IEEE-754
// bits), Bool 1 byte, String u64 length + bytes, Map u64 count followed by
// u64 key length, key bytes and the value frame per entry.
func AppendValue(buf []byte, v Value) ([]byte, error) {
	buf = append(buf, byte(v.Kind))

	switch v.Kind {
	case KindInt:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.I64))
	case KindDouble:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.F64))
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindString:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(v.S)))
		buf = append(buf, v.S...)
	case KindMap:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(v.M)))
		for k, item := range v.M {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(len(k)))
			buf = append(buf, k...)
			var err error
			buf, err = AppendValue(buf, item)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, v.Kind)
	}
	return buf, nil
}

// ParseValue decodes one value frame from data starting at off and returns
// the value together with the offset of the first byte after the frame.
//
// String bodies are not validated as UTF-8; boxes written by older producers
// may carry arbitrary bytes and must stay readable.
func ParseValue(data []byte, off int) (Value, int, error) {
	if off >= len(data) {
		return Value{}, off, NewDecodeError("value tag", ErrShortBuffer)
	}
	kind := Kind(data[off])
	off++

	var v Value
	v.Kind = kind

	switch kind {
	case KindInt:
		if len(data)-off < 8 {
			return v, off, NewDecodeError("int body", ErrShortBuffer)
		}
		v.I64 = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	case KindDouble:
		if len(data)-off < 8 {
			return v, off, NewDecodeError("double body", ErrShortBuffer)
		}
		v.F64 = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	case KindBool:
		if off >= len(data) {
			return v, off, NewDecodeError("bool body", ErrShortBuffer)
		}
		v.B = data[off] != 0
		off++
	case KindString:
		s, next, err := parseLenBytes(data, off)
		if err != nil {
			return v, off, err
		}
		v.S = string(s)
		off = next
	case KindMap:
		if len(data)-off < 8 {
			return v, off, NewDecodeError("map count", ErrShortBuffer)
		}
		count := binary.LittleEndian.Uint64(data[off:])
		off += 8
		m := make(Map, count)
		for range count {
			key, next, err := parseLenBytes(data, off)
			if err != nil {
				return v, off, err
			}
			off = next
			item, next, err := ParseValue(data, off)
			if err != nil {
				return v, off, err
			}
			off = next
			// Duplicate keys in a hand-crafted frame: last write wins.
			m[string(key)] = item
		}
		v.M = m
	default:
		return v, off, NewDecodeError(fmt.Sprintf("tag %d", kind), ErrUnknownTag)
	}
	return v, off, nil
}

// parseLenBytes reads a u64 length prefix followed by that many bytes.
func parseLenBytes(data []byte, off int) ([]byte, int, error) {
	if len(data)-off < 8 {
		return nil, off, NewDecodeError("length prefix", ErrShortBuffer)
	}
	n := binary.LittleEndian.Uint64(data[off:])
	off += 8
	if uint64(len(data)-off) < n {
		return nil, off, NewDecodeError(fmt.Sprintf("%d-byte body (have %d)", n, len(data)-off), ErrShortBuffer)
	}
	return data[off : off+int(n)], off + int(n), nil
}
