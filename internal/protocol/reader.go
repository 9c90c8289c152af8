package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned when a read requests more bytes than remain in
// the buffer. It is always fatal to the current decode.
var ErrTruncated = errors.New("truncated stream")

// Reader is a cursor over a fully buffered payload. All multi-byte integers
// are read big-endian, matching the wire format; VarInts use 7-bit groups
// with a continuation bit, least significant group first.
//
// A Reader is not safe for concurrent use; each decode call owns its own.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf. The Reader
// does not copy buf; the caller must not mutate it during the decode.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int, field string) error {
	if len(r.buf)-r.off < n {
		return fmt.Errorf("%s: need %d bytes at offset %d, have %d: %w",
			field, n, r.off, len(r.buf)-r.off, ErrTruncated)
	}
	return nil
}

// Bytes returns the next n bytes. The returned slice aliases the underlying
// buffer and must be copied if retained past the decode.
func (r *Reader) Bytes(n int, field string) ([]byte, error) {
	if err := r.need(n, field); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) Uint8(field string) (byte, error) {
	if err := r.need(1, field); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *Reader) Int8(field string) (int8, error) {
	v, err := r.Uint8(field)
	return int8(v), err
}

func (r *Reader) Bool(field string) (bool, error) {
	v, err := r.Uint8(field)
	return v != 0, err
}

func (r *Reader) Uint16(field string) (uint16, error) {
	if err := r.need(2, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) Int16(field string) (int16, error) {
	v, err := r.Uint16(field)
	return int16(v), err
}

func (r *Reader) Uint32(field string) (uint32, error) {
	if err := r.need(4, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *Reader) Int32(field string) (int32, error) {
	v, err := r.Uint32(field)
	return int32(v), err
}

func (r *Reader) Uint64(field string) (uint64, error) {
	if err := r.need(8, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

func (r *Reader) Int64(field string) (int64, error) {
	v, err := r.Uint64(field)
	return int64(v), err
}

func (r *Reader) Float32(field string) (float32, error) {
	v, err := r.Uint32(field)
	return math.Float32frombits(v), err
}

func (r *Reader) Float64(field string) (float64, error) {
	v, err := r.Uint64(field)
	return math.Float64frombits(v), err
}

// VarInt reads a variable-length 32-bit integer, at most 5 bytes.
func (r *Reader) VarInt(field string) (int32, error) {
	var result uint32
	for numRead := 0; ; numRead++ {
		if numRead >= 5 {
			return 0, fmt.Errorf("%s: VarInt too long at offset %d", field, r.off)
		}
		b, err := r.Uint8(field)
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << (7 * numRead)
		if b&0x80 == 0 {
			break
		}
	}
	return int32(result), nil
}

// VarLong reads a variable-length 64-bit integer, at most 10 bytes.
func (r *Reader) VarLong(field string) (int64, error) {
	var result uint64
	for numRead := 0; ; numRead++ {
		if numRead >= 10 {
			return 0, fmt.Errorf("%s: VarLong too long at offset %d", field, r.off)
		}
		b, err := r.Uint8(field)
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7F) << (7 * numRead)
		if b&0x80 == 0 {
			break
		}
	}
	return int64(result), nil
}

// String reads a length-prefixed UTF-8 string. prefix selects the width of
// the length field: PrefixUint16 for tag-tree strings, PrefixVarInt for
// protocol strings.
func (r *Reader) String(prefix LengthPrefix, field string) (string, error) {
	var n int
	switch prefix {
	case PrefixUint16:
		v, err := r.Uint16(field)
		if err != nil {
			return "", err
		}
		n = int(v)
	case PrefixVarInt:
		v, err := r.VarInt(field)
		if err != nil {
			return "", err
		}
		if v < 0 {
			return "", fmt.Errorf("%s: negative string length %d at offset %d", field, v, r.off)
		}
		n = int(v)
	default:
		return "", fmt.Errorf("%s: unknown length prefix %d", field, prefix)
	}
	b, err := r.Bytes(n, field)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LengthPrefix selects how a string's byte length is encoded on the wire.
type LengthPrefix int

const (
	PrefixUint16 LengthPrefix = iota
	PrefixVarInt
)
