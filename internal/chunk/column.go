package chunk

import (
	"fmt"

	"github.com/willf/bitset"

	"github.com/OCharnyshevich/chunkwire/internal/nbt"
	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

// BiomeArea is the number of biome entries in a full column, one per block
// column of the 16x16 footprint, (z*16)+x order.
const BiomeArea = SectionWidth * SectionWidth

// Column is a decoded chunk column packet. It owns all of its data; nothing
// references the reader it was decoded from.
type Column struct {
	X, Z int32

	// Full distinguishes a complete column replace from a partial
	// section overwrite.
	Full bool

	// Mask has one bit per section slot, bit 0 = lowest section. A
	// section is populated iff its bit is set.
	Mask *bitset.BitSet

	// Sections always has Profile.SectionCount entries; absent slots
	// hold empty placeholder sections.
	Sections []*Section

	// Heightmaps is nil on profiles without the heightmap header field.
	Heightmaps nbt.Compound

	// DataSize is the declared byte length of the section and biome
	// payload. Informational; it does not gate the section loop.
	DataSize int32

	// Biomes holds BiomeArea entries when Full, nil otherwise.
	Biomes []int32

	// BlockEntities are the trailing tag trees, one compound each.
	BlockEntities []nbt.Compound
}

// DecodeColumn decodes a chunk column payload positioned at r.
func DecodeColumn(r *protocol.Reader, ctx *Context) (*Column, error) {
	c := &Column{}
	var err error

	if c.X, err = r.Int32("chunk x"); err != nil {
		return nil, err
	}
	if c.Z, err = r.Int32("chunk z"); err != nil {
		return nil, err
	}
	if c.Full, err = r.Bool("full chunk"); err != nil {
		return nil, err
	}

	mask, err := readMask(r, ctx.Profile.MaskWidth)
	if err != nil {
		return nil, err
	}
	c.Mask = bitset.From([]uint64{mask})

	if ctx.Profile.HasHeightmaps {
		_, heightmaps, err := nbt.DecodeCompound(r)
		if err != nil {
			return nil, fmt.Errorf("heightmaps: %w", err)
		}
		c.Heightmaps = heightmaps
	}

	if c.DataSize, err = r.VarInt("data size"); err != nil {
		return nil, err
	}

	c.Sections = make([]*Section, ctx.Profile.SectionCount)
	for y := range c.Sections {
		if c.Mask.Test(uint(y)) {
			c.Sections[y], err = readSection(r, ctx, y)
			if err != nil {
				return nil, err
			}
		} else {
			c.Sections[y] = &Section{Y: y}
		}
	}

	if c.Full {
		c.Biomes = make([]int32, BiomeArea)
		for i := range c.Biomes {
			if c.Biomes[i], err = r.Int32("biome"); err != nil {
				return nil, err
			}
		}
	}

	count, err := r.VarInt("block entity count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("block entity count %d at offset %d is negative", count, r.Offset())
	}
	c.BlockEntities = make([]nbt.Compound, 0, count)
	for i := int32(0); i < count; i++ {
		_, entity, err := nbt.DecodeCompound(r)
		if err != nil {
			return nil, fmt.Errorf("block entity %d: %w", i, err)
		}
		c.BlockEntities = append(c.BlockEntities, entity)
	}

	return c, nil
}

func readMask(r *protocol.Reader, width MaskWidth) (uint64, error) {
	switch width {
	case MaskVarInt:
		v, err := r.VarInt("section mask")
		return uint64(uint32(v)), err
	case MaskInt32:
		v, err := r.Uint32("section mask")
		return uint64(v), err
	case MaskUint16:
		v, err := r.Uint16("section mask")
		return uint64(v), err
	}
	return 0, fmt.Errorf("unknown section mask width %d", width)
}

// BlockState returns the global id at column-local coordinates, with y
// spanning the full column height.
func (c *Column) BlockState(x, y, z int) int32 {
	sectionY := y / SectionWidth
	if sectionY < 0 || sectionY >= len(c.Sections) {
		return 0
	}
	return c.Sections[sectionY].BlockState(x, y%SectionWidth, z)
}

// AppendColumn encodes c as the inverse of DecodeColumn. The declared data
// size is recomputed from the section and biome payload, not taken from
// c.DataSize.
func AppendColumn(b []byte, c *Column, ctx *Context) ([]byte, error) {
	b = protocol.AppendInt32(b, c.X)
	b = protocol.AppendInt32(b, c.Z)
	b = protocol.AppendBool(b, c.Full)

	var mask uint64
	if c.Mask != nil && len(c.Mask.Bytes()) > 0 {
		mask = c.Mask.Bytes()[0]
	}
	b, err := appendMask(b, mask, ctx.Profile.MaskWidth)
	if err != nil {
		return nil, err
	}

	if ctx.Profile.HasHeightmaps {
		heightmaps, err := nbt.Marshal("", c.Heightmaps)
		if err != nil {
			return nil, fmt.Errorf("heightmaps: %w", err)
		}
		b = append(b, heightmaps...)
	}

	var data []byte
	for y := 0; y < ctx.Profile.SectionCount; y++ {
		if mask&(1<<uint(y)) == 0 {
			continue
		}
		if y >= len(c.Sections) || c.Sections[y].Empty() {
			return nil, fmt.Errorf("section %d: mask bit set but section is absent", y)
		}
		if data, err = appendSection(data, c.Sections[y], ctx); err != nil {
			return nil, err
		}
	}
	if c.Full {
		if len(c.Biomes) != BiomeArea {
			return nil, fmt.Errorf("full column has %d biomes, want %d", len(c.Biomes), BiomeArea)
		}
		for _, biome := range c.Biomes {
			data = protocol.AppendInt32(data, biome)
		}
	}
	b = protocol.AppendVarInt(b, int32(len(data)))
	b = append(b, data...)

	b = protocol.AppendVarInt(b, int32(len(c.BlockEntities)))
	for i, entity := range c.BlockEntities {
		encoded, err := nbt.Marshal("", entity)
		if err != nil {
			return nil, fmt.Errorf("block entity %d: %w", i, err)
		}
		b = append(b, encoded...)
	}
	return b, nil
}

func appendMask(b []byte, mask uint64, width MaskWidth) ([]byte, error) {
	switch width {
	case MaskVarInt:
		return protocol.AppendVarInt(b, int32(uint32(mask))), nil
	case MaskInt32:
		return protocol.AppendUint32(b, uint32(mask)), nil
	case MaskUint16:
		return protocol.AppendUint16(b, uint16(mask)), nil
	}
	return nil, fmt.Errorf("unknown section mask width %d", width)
}
