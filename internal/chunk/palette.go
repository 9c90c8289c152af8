package chunk

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

// ErrPaletteIndex is returned when a raw value exceeds an indirect
// palette's table. It indicates a palette/width mismatch and is fatal.
var ErrPaletteIndex = errors.New("palette index out of range")

// Palette maps raw per-voxel values from the compacted array to global
// block-state ids. The variant is fixed by the declared bits-per-block at
// section decode time and never changes afterwards.
type Palette interface {
	// Resolve maps one raw value to a global block-state id.
	Resolve(raw uint32) (int32, error)

	// Bits reports the effective bit width of the compacted array, which
	// for a direct palette deliberately differs from the declared
	// bits-per-block (see NewPalette).
	Bits() uint
}

// IndirectPalette resolves raw values as indices into a per-section table.
type IndirectPalette struct {
	bits    uint
	entries []int32
}

func (p *IndirectPalette) Bits() uint { return p.bits }

// Entries returns the palette table, index to global id.
func (p *IndirectPalette) Entries() []int32 { return p.entries }

func (p *IndirectPalette) Resolve(raw uint32) (int32, error) {
	if int(raw) >= len(p.entries) {
		return 0, fmt.Errorf("index %d with %d entries: %w", raw, len(p.entries), ErrPaletteIndex)
	}
	return p.entries[raw], nil
}

// DirectPalette resolves raw values as global ids unchanged.
type DirectPalette struct {
	bits uint
}

func (p DirectPalette) Bits() uint { return p.bits }

func (p DirectPalette) Resolve(raw uint32) (int32, error) {
	return int32(raw), nil
}

// GlobalPaletteBits returns the bit width needed to address a block-state
// id space of the given size.
func GlobalPaletteBits(paletteSize int32) uint {
	if paletteSize <= 1 {
		return 1
	}
	return uint(bits.Len32(uint32(paletteSize - 1)))
}

// NewPalette selects the palette variant for a declared bits-per-block:
// indirect clamped to the profile's minimum width when bitsPerBlock is at
// or below that minimum, indirect at the declared width up to 8 bits, and
// direct above that. The direct width is derived from the registry size,
// not from the declared value; the wire protocol treats the declared
// bits-per-block as a hint there.
func NewPalette(bitsPerBlock uint, ctx *Context) Palette {
	if bitsPerBlock > 8 {
		return DirectPalette{bits: GlobalPaletteBits(ctx.GlobalPaletteSize)}
	}
	if bitsPerBlock < ctx.Profile.MinIndirectBits {
		bitsPerBlock = ctx.Profile.MinIndirectBits
	}
	return &IndirectPalette{bits: bitsPerBlock}
}

// readPalette constructs the palette for a section header and, for the
// indirect variant, reads its table from the stream. A direct palette has
// no table on the wire.
func readPalette(r *protocol.Reader, bitsPerBlock uint, ctx *Context) (Palette, error) {
	palette := NewPalette(bitsPerBlock, ctx)
	indirect, ok := palette.(*IndirectPalette)
	if !ok {
		return palette, nil
	}

	length, err := r.VarInt("palette length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("palette length %d at offset %d is negative", length, r.Offset())
	}
	indirect.entries = make([]int32, length)
	for i := range indirect.entries {
		entry, err := r.VarInt("palette entry")
		if err != nil {
			return nil, err
		}
		indirect.entries[i] = entry
	}
	return indirect, nil
}
