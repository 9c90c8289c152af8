package nbt

import (
	"fmt"

	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

// Decode reads one named root tag: an id byte, a name, then the payload.
// This is the layout of a network NBT document (heightmaps, block entities).
func Decode(r *protocol.Reader) (name string, tag Tag, err error) {
	id, err := readTagID(r)
	if err != nil {
		return "", nil, err
	}
	if id == TagEnd {
		return "", nil, fmt.Errorf("root tag at offset %d is End", r.Offset())
	}
	name, err = r.String(protocol.PrefixUint16, "tag name")
	if err != nil {
		return "", nil, err
	}
	tag, err = decodeValue(r, id, 0)
	if err != nil {
		return "", nil, fmt.Errorf("tag %q: %w", name, err)
	}
	return name, tag, nil
}

// DecodeCompound reads a named root tag and requires it to be a Compound.
func DecodeCompound(r *protocol.Reader) (string, Compound, error) {
	name, tag, err := Decode(r)
	if err != nil {
		return "", nil, err
	}
	c, ok := tag.(Compound)
	if !ok {
		return "", nil, fmt.Errorf("root tag %q is %s, want Compound", name, tag.ID())
	}
	return name, c, nil
}

func readTagID(r *protocol.Reader) (TagID, error) {
	b, err := r.Uint8("tag id")
	if err != nil {
		return 0, err
	}
	id := TagID(b)
	if id > TagLongArray {
		return 0, fmt.Errorf("tag id %d at offset %d: %w", b, r.Offset()-1, ErrUnknownTag)
	}
	return id, nil
}

func readLength(r *protocol.Reader, field string) (int, error) {
	n, err := r.Int32(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative length %d at offset %d", field, n, r.Offset())
	}
	return int(n), nil
}

func decodeValue(r *protocol.Reader, id TagID, depth int) (Tag, error) {
	if depth >= MaxDepth {
		return nil, fmt.Errorf("at offset %d: %w", r.Offset(), ErrMaxDepth)
	}

	switch id {
	case TagByte:
		v, err := r.Int8("byte tag")
		return Byte(v), err
	case TagShort:
		v, err := r.Int16("short tag")
		return Short(v), err
	case TagInt:
		v, err := r.Int32("int tag")
		return Int(v), err
	case TagLong:
		v, err := r.Int64("long tag")
		return Long(v), err
	case TagFloat:
		v, err := r.Float32("float tag")
		return Float(v), err
	case TagDouble:
		v, err := r.Float64("double tag")
		return Double(v), err

	case TagByteArray:
		n, err := readLength(r, "byte array length")
		if err != nil {
			return nil, err
		}
		b, err := r.Bytes(n, "byte array")
		if err != nil {
			return nil, err
		}
		return ByteArray(append([]byte(nil), b...)), nil

	case TagString:
		s, err := r.String(protocol.PrefixUint16, "string tag")
		return String(s), err

	case TagList:
		elemID, err := readTagID(r)
		if err != nil {
			return nil, err
		}
		n, err := readLength(r, "list length")
		if err != nil {
			return nil, err
		}
		if elemID == TagEnd && n > 0 {
			return nil, fmt.Errorf("list of End with %d elements at offset %d: %w",
				n, r.Offset(), ErrUnknownTag)
		}
		list := List{ElemID: elemID, Elems: make([]Tag, 0, n)}
		for i := 0; i < n; i++ {
			elem, err := decodeValue(r, elemID, depth+1)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			list.Elems = append(list.Elems, elem)
		}
		return list, nil

	case TagCompound:
		compound := Compound{}
		for {
			childID, err := readTagID(r)
			if err != nil {
				return nil, err
			}
			if childID == TagEnd {
				return compound, nil
			}
			name, err := r.String(protocol.PrefixUint16, "tag name")
			if err != nil {
				return nil, err
			}
			child, err := decodeValue(r, childID, depth+1)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", name, err)
			}
			compound[name] = child
		}

	case TagIntArray:
		n, err := readLength(r, "int array length")
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, n)
		for i := range arr {
			v, err := r.Int32("int array")
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil

	case TagLongArray:
		n, err := readLength(r, "long array length")
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, n)
		for i := range arr {
			v, err := r.Int64("long array")
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	}

	// TagEnd: only valid inside a Compound, handled above.
	return nil, fmt.Errorf("tag id %d at offset %d: %w", id, r.Offset(), ErrUnknownTag)
}
