package protocol

import (
	"encoding/binary"
	"math"
)

// Append helpers build payloads as the exact inverse of Reader. They follow
// the append convention so callers can reuse one backing slice.

func AppendUint8(b []byte, v byte) []byte {
	return append(b, v)
}

func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func AppendUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}

func AppendInt16(b []byte, v int16) []byte {
	return AppendUint16(b, uint16(v))
}

func AppendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

func AppendInt32(b []byte, v int32) []byte {
	return AppendUint32(b, uint32(v))
}

func AppendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

func AppendInt64(b []byte, v int64) []byte {
	return AppendUint64(b, uint64(v))
}

func AppendFloat32(b []byte, v float32) []byte {
	return AppendUint32(b, math.Float32bits(v))
}

func AppendFloat64(b []byte, v float64) []byte {
	return AppendUint64(b, math.Float64bits(v))
}

func AppendVarInt(b []byte, v int32) []byte {
	val := uint32(v)
	for {
		c := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if val == 0 {
			return b
		}
	}
}

func AppendVarLong(b []byte, v int64) []byte {
	val := uint64(v)
	for {
		c := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if val == 0 {
			return b
		}
	}
}

// VarIntSize reports the encoded byte length of v.
func VarIntSize(v int32) int {
	val := uint32(v)
	size := 0
	for {
		size++
		val >>= 7
		if val == 0 {
			return size
		}
	}
}
