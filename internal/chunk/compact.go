package chunk

import (
	"errors"
	"fmt"
)

// ErrInsufficientWords is returned when a compacted array holds fewer
// 64-bit words than its declared value count and width require. It signals
// a version-format mismatch or a corrupt stream, never a recoverable state.
var ErrInsufficientWords = errors.New("insufficient words in compacted array")

// WordCount returns the number of 64-bit words needed to hold count values
// of the given bit width.
func WordCount(count int, width uint) int {
	return (count*int(width) + 63) / 64
}

// Unpack extracts count width-bit unsigned values from words. Values are
// packed low bits first with no padding, so a value may straddle two
// consecutive words. The output order matches the packed order; no palette
// resolution happens here.
func Unpack(words []uint64, width uint, count int) ([]uint32, error) {
	if width == 0 || width > 32 {
		return nil, fmt.Errorf("unpack: unsupported width %d", width)
	}
	if need := WordCount(count, width); len(words) < need {
		return nil, fmt.Errorf("unpack: %d values at %d bits need %d words, have %d: %w",
			count, width, need, len(words), ErrInsufficientWords)
	}

	mask := uint64(1)<<width - 1
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		bitOffset := uint(i) * width
		wordIndex := bitOffset / 64
		bitInWord := bitOffset % 64

		value := words[wordIndex] >> bitInWord
		if bitInWord+width > 64 {
			value |= words[wordIndex+1] << (64 - bitInWord)
		}
		out[i] = uint32(value & mask)
	}
	return out, nil
}

// Pack is the inverse of Unpack: it compacts width-bit values into the
// minimal word sequence. Value bits above width are discarded.
func Pack(values []uint32, width uint) []uint64 {
	mask := uint64(1)<<width - 1
	words := make([]uint64, WordCount(len(values), width))
	for i, v := range values {
		bitOffset := uint(i) * width
		wordIndex := bitOffset / 64
		bitInWord := bitOffset % 64

		value := uint64(v) & mask
		words[wordIndex] |= value << bitInWord
		if bitInWord+width > 64 {
			words[wordIndex+1] |= value >> (64 - bitInWord)
		}
	}
	return words
}
