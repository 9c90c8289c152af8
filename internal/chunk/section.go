package chunk

import (
	"fmt"

	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

const (
	// SectionWidth is the edge length of a cubic section.
	SectionWidth = 16

	// SectionVolume is the number of voxels in one section.
	SectionVolume = SectionWidth * SectionWidth * SectionWidth

	// lightBytes is the size of one nibble-packed light array.
	lightBytes = SectionVolume / 2
)

// Section is one 16x16x16 cube of a column. An absent section (presence bit
// unset) has nil BlockStates and resolves every voxel to the empty state.
type Section struct {
	Y int // vertical slot index within the column

	// BitsPerBlock is the declared width from the section header. The
	// effective width of the compacted array may differ; see NewPalette.
	BitsPerBlock uint8

	Palette Palette

	// BlockStates holds SectionVolume resolved global ids in
	// ((y*16)+z)*16+x order, or nil for an absent section.
	BlockStates []int32

	// BlockLight and SkyLight are nibble-packed, 4 bits per voxel. Only
	// present on profiles with legacy light; SkyLight only in the
	// overworld.
	BlockLight []byte
	SkyLight   []byte
}

// Empty reports whether the section carried no payload in its packet.
func (s *Section) Empty() bool { return s.BlockStates == nil }

// BlockState returns the global id at section-local coordinates, or 0 for
// an absent section.
func (s *Section) BlockState(x, y, z int) int32 {
	if s.BlockStates == nil {
		return 0
	}
	return s.BlockStates[(y*SectionWidth+z)*SectionWidth+x]
}

// readSection decodes one populated section: declared bits-per-block,
// palette, compacted block array, then version-gated light arrays.
func readSection(r *protocol.Reader, ctx *Context, y int) (*Section, error) {
	bitsPerBlock, err := r.Uint8("bits per block")
	if err != nil {
		return nil, err
	}

	palette, err := readPalette(r, uint(bitsPerBlock), ctx)
	if err != nil {
		return nil, fmt.Errorf("section %d palette: %w", y, err)
	}

	wordCount, err := r.VarInt("block data length")
	if err != nil {
		return nil, err
	}
	if expect := WordCount(SectionVolume, palette.Bits()); int(wordCount) != expect {
		return nil, fmt.Errorf("section %d: %d data words at %d bits, want %d: %w",
			y, wordCount, palette.Bits(), expect, ErrInsufficientWords)
	}
	words := make([]uint64, wordCount)
	for i := range words {
		words[i], err = r.Uint64("block data")
		if err != nil {
			return nil, err
		}
	}

	raw, err := Unpack(words, palette.Bits(), SectionVolume)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", y, err)
	}

	states := make([]int32, SectionVolume)
	for i, v := range raw {
		states[i], err = palette.Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("section %d block %d: %w", y, i, err)
		}
	}

	section := &Section{
		Y:            y,
		BitsPerBlock: bitsPerBlock,
		Palette:      palette,
		BlockStates:  states,
	}

	if ctx.Profile.HasLegacyLight {
		light, err := r.Bytes(lightBytes, "block light")
		if err != nil {
			return nil, err
		}
		section.BlockLight = append([]byte(nil), light...)

		if ctx.Dimension == DimensionOverworld {
			light, err := r.Bytes(lightBytes, "sky light")
			if err != nil {
				return nil, err
			}
			section.SkyLight = append([]byte(nil), light...)
		}
	}

	return section, nil
}

// appendSection encodes a populated section as the inverse of readSection.
// Indirect block states must all be present in the palette table.
func appendSection(b []byte, s *Section, ctx *Context) ([]byte, error) {
	if s.Empty() {
		return nil, fmt.Errorf("section %d: cannot encode an absent section", s.Y)
	}

	b = protocol.AppendUint8(b, s.BitsPerBlock)

	raw := make([]uint32, SectionVolume)
	switch p := s.Palette.(type) {
	case *IndirectPalette:
		b = protocol.AppendVarInt(b, int32(len(p.entries)))
		reverse := make(map[int32]uint32, len(p.entries))
		for i, id := range p.entries {
			b = protocol.AppendVarInt(b, id)
			if _, seen := reverse[id]; !seen {
				reverse[id] = uint32(i)
			}
		}
		for i, id := range s.BlockStates {
			idx, ok := reverse[id]
			if !ok {
				return nil, fmt.Errorf("section %d block %d: state %d not in palette: %w",
					s.Y, i, id, ErrPaletteIndex)
			}
			raw[i] = idx
		}
	case DirectPalette:
		for i, id := range s.BlockStates {
			raw[i] = uint32(id)
		}
	default:
		return nil, fmt.Errorf("section %d: unknown palette variant %T", s.Y, s.Palette)
	}

	words := Pack(raw, s.Palette.Bits())
	b = protocol.AppendVarInt(b, int32(len(words)))
	for _, w := range words {
		b = protocol.AppendUint64(b, w)
	}

	if ctx.Profile.HasLegacyLight {
		b = append(b, s.BlockLight...)
		if ctx.Dimension == DimensionOverworld {
			b = append(b, s.SkyLight...)
		}
	}
	return b, nil
}
