package nbt

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Marshal encodes a named root tag to a fresh byte slice.
func Marshal(name string, tag Tag) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteNamed(name, tag); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stringify renders a tag tree in SNBT-like notation for display.
func Stringify(tag Tag) string {
	var sb strings.Builder
	stringify(&sb, tag)
	return sb.String()
}

func stringify(sb *strings.Builder, tag Tag) {
	switch v := tag.(type) {
	case Byte:
		fmt.Fprintf(sb, "%db", int8(v))
	case Short:
		fmt.Fprintf(sb, "%ds", int16(v))
	case Int:
		fmt.Fprintf(sb, "%d", int32(v))
	case Long:
		fmt.Fprintf(sb, "%dL", int64(v))
	case Float:
		fmt.Fprintf(sb, "%gf", float32(v))
	case Double:
		fmt.Fprintf(sb, "%gd", float64(v))
	case String:
		sb.WriteString(strconv.Quote(string(v)))
	case ByteArray:
		sb.WriteString("[B;")
		for i, b := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%db", int8(b))
		}
		sb.WriteByte(']')
	case IntArray:
		sb.WriteString("[I;")
		for i, n := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%d", n)
		}
		sb.WriteByte(']')
	case LongArray:
		sb.WriteString("[L;")
		for i, n := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%dL", n)
		}
		sb.WriteByte(']')
	case List:
		sb.WriteByte('[')
		for i, elem := range v.Elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			stringify(sb, elem)
		}
		sb.WriteByte(']')
	case Compound:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteByte('{')
		for i, name := range names {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(name)
			sb.WriteByte(':')
			stringify(sb, v[name])
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("?")
	}
}
