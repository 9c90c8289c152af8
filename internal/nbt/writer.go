package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// Writer writes tag trees to an io.Writer in big-endian wire format.
// Write methods accumulate errors internally; call Err() after writing.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a new tag Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered during writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) putByte(v byte) {
	w.write([]byte{v})
}

func (w *Writer) putUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.write(buf[:])
}

func (w *Writer) putInt32(v int32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	w.write(buf[:])
}

func (w *Writer) putInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.write(buf[:])
}

func (w *Writer) putString(s string) {
	w.putUint16(uint16(len(s)))
	if len(s) > 0 {
		w.write([]byte(s))
	}
}

// WriteNamed writes a complete named root tag: id, name, payload. The exact
// inverse of Decode.
func (w *Writer) WriteNamed(name string, tag Tag) error {
	if w.err != nil {
		return w.err
	}
	w.putByte(byte(tag.ID()))
	w.putString(name)
	w.writePayload(tag)
	return w.err
}

func (w *Writer) writePayload(tag Tag) {
	switch v := tag.(type) {
	case Byte:
		w.putByte(byte(v))
	case Short:
		w.putUint16(uint16(v))
	case Int:
		w.putInt32(int32(v))
	case Long:
		w.putInt64(int64(v))
	case Float:
		w.putInt32(int32(math.Float32bits(float32(v))))
	case Double:
		w.putInt64(int64(math.Float64bits(float64(v))))
	case ByteArray:
		w.putInt32(int32(len(v)))
		w.write(v)
	case String:
		w.putString(string(v))
	case List:
		w.putByte(byte(v.ElemID))
		w.putInt32(int32(len(v.Elems)))
		for _, elem := range v.Elems {
			w.writePayload(elem)
		}
	case Compound:
		// Children are sorted by name so encoding is deterministic; the
		// wire format itself does not constrain compound ordering.
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := v[name]
			w.putByte(byte(child.ID()))
			w.putString(name)
			w.writePayload(child)
		}
		w.putByte(byte(TagEnd))
	case IntArray:
		w.putInt32(int32(len(v)))
		for _, val := range v {
			w.putInt32(val)
		}
	case LongArray:
		w.putInt32(int32(len(v)))
		for _, val := range v {
			w.putInt64(val)
		}
	default:
		if w.err == nil {
			w.err = fmt.Errorf("cannot encode tag of type %T", tag)
		}
	}
}
