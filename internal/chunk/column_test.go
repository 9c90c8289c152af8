package chunk

import (
	"errors"
	"reflect"
	"testing"

	"github.com/willf/bitset"

	"github.com/OCharnyshevich/chunkwire/internal/nbt"
	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

func maskOf(indices ...uint) *bitset.BitSet {
	m := bitset.New(16)
	for _, i := range indices {
		m.Set(i)
	}
	return m
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		version        int32
		maskWidth      MaskWidth
		hasHeightmaps  bool
		hasLegacyLight bool
	}{
		{47, MaskUint16, false, true},
		{69, MaskInt32, false, true},
		{70, MaskVarInt, false, true},
		{340, MaskVarInt, false, true},
		{404, MaskVarInt, false, true},
		{440, MaskVarInt, false, true},
		{441, MaskVarInt, false, false},
		{443, MaskVarInt, true, false},
		{477, MaskVarInt, true, false},
	}

	for _, tt := range tests {
		p := ProfileFor(tt.version)
		if p.MaskWidth != tt.maskWidth {
			t.Errorf("ProfileFor(%d).MaskWidth = %d, want %d", tt.version, p.MaskWidth, tt.maskWidth)
		}
		if p.HasHeightmaps != tt.hasHeightmaps {
			t.Errorf("ProfileFor(%d).HasHeightmaps = %v, want %v", tt.version, p.HasHeightmaps, tt.hasHeightmaps)
		}
		if p.HasLegacyLight != tt.hasLegacyLight {
			t.Errorf("ProfileFor(%d).HasLegacyLight = %v, want %v", tt.version, p.HasLegacyLight, tt.hasLegacyLight)
		}
		if p.SectionCount != 16 || p.MinIndirectBits != 4 {
			t.Errorf("ProfileFor(%d) sections=%d minBits=%d", tt.version, p.SectionCount, p.MinIndirectBits)
		}
	}
}

func TestDecodeColumnEmptyMask(t *testing.T) {
	ctx := &Context{Profile: ProfileFor(404), Dimension: DimensionOverworld, GlobalPaletteSize: 1 << 14}

	var buf []byte
	buf = protocol.AppendInt32(buf, 10)
	buf = protocol.AppendInt32(buf, -4)
	buf = protocol.AppendBool(buf, false)
	buf = protocol.AppendVarInt(buf, 0) // mask: no sections
	buf = protocol.AppendVarInt(buf, 0) // data size
	buf = protocol.AppendVarInt(buf, 0) // block entities

	c, err := DecodeColumn(protocol.NewReader(buf), ctx)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}
	if c.X != 10 || c.Z != -4 || c.Full {
		t.Errorf("header = (%d,%d) full=%v", c.X, c.Z, c.Full)
	}
	if len(c.Sections) != 16 {
		t.Fatalf("len(Sections) = %d, want 16", len(c.Sections))
	}
	for y, s := range c.Sections {
		if !s.Empty() {
			t.Errorf("section %d should be empty", y)
		}
		if s.Y != y {
			t.Errorf("section %d has Y=%d", y, s.Y)
		}
	}
	if c.Biomes != nil {
		t.Error("partial column should have no biomes")
	}
}

func TestDecodeColumnFullBiomes(t *testing.T) {
	ctx := &Context{Profile: ProfileFor(404), Dimension: DimensionOverworld, GlobalPaletteSize: 1 << 14}

	var buf []byte
	buf = protocol.AppendInt32(buf, 0)
	buf = protocol.AppendInt32(buf, 0)
	buf = protocol.AppendBool(buf, true)
	buf = protocol.AppendVarInt(buf, 0)
	buf = protocol.AppendVarInt(buf, int32(BiomeArea*4))
	for i := 0; i < BiomeArea; i++ {
		buf = protocol.AppendInt32(buf, 0)
	}
	buf = protocol.AppendVarInt(buf, 0)

	c, err := DecodeColumn(protocol.NewReader(buf), ctx)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}
	if len(c.Biomes) != BiomeArea {
		t.Fatalf("len(Biomes) = %d, want %d", len(c.Biomes), BiomeArea)
	}
	for i, b := range c.Biomes {
		if b != 0 {
			t.Fatalf("biome %d = %d, want 0", i, b)
		}
	}
}

func TestDecodeColumnMaskWidths(t *testing.T) {
	tests := []struct {
		name    string
		version int32
		mask    func([]byte) []byte
	}{
		{"uint16", 47, func(b []byte) []byte { return protocol.AppendUint16(b, 0b101) }},
		{"int32", 69, func(b []byte) []byte { return protocol.AppendUint32(b, 0b101) }},
		{"varint", 340, func(b []byte) []byte { return protocol.AppendVarInt(b, 0b101) }},
	}

	words := make([]uint64, WordCount(SectionVolume, 4))
	section := appendIndirectSection(nil, 4, []int32{7}, words)
	light := make([]byte, lightBytes*2) // legacy block+sky light, overworld

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &Context{Profile: ProfileFor(tt.version), Dimension: DimensionOverworld, GlobalPaletteSize: 1 << 13}

			var buf []byte
			buf = protocol.AppendInt32(buf, 1)
			buf = protocol.AppendInt32(buf, 2)
			buf = protocol.AppendBool(buf, false)
			buf = tt.mask(buf)
			var data []byte
			data = append(data, section...)
			data = append(data, light...)
			data = append(data, section...)
			data = append(data, light...)
			buf = protocol.AppendVarInt(buf, int32(len(data)))
			buf = append(buf, data...)
			buf = protocol.AppendVarInt(buf, 0)

			c, err := DecodeColumn(protocol.NewReader(buf), ctx)
			if err != nil {
				t.Fatalf("DecodeColumn: %v", err)
			}
			for y := 0; y < 16; y++ {
				wantPopulated := y == 0 || y == 2
				if got := !c.Sections[y].Empty(); got != wantPopulated {
					t.Errorf("section %d populated = %v, want %v", y, got, wantPopulated)
				}
				if c.Mask.Test(uint(y)) != wantPopulated {
					t.Errorf("mask bit %d = %v, want %v", y, c.Mask.Test(uint(y)), wantPopulated)
				}
			}
			if c.Sections[2].BlockState(0, 0, 0) != 7 {
				t.Errorf("section 2 block = %d, want 7", c.Sections[2].BlockState(0, 0, 0))
			}
		})
	}
}

func TestDecodeColumnHeightmaps(t *testing.T) {
	ctx := &Context{Profile: ProfileFor(477), Dimension: DimensionOverworld, GlobalPaletteSize: 1 << 14}

	heightmaps := nbt.Compound{"MOTION_BLOCKING": nbt.LongArray{1, 2, 3}}
	encoded, err := nbt.Marshal("", heightmaps)
	if err != nil {
		t.Fatal(err)
	}

	var buf []byte
	buf = protocol.AppendInt32(buf, 0)
	buf = protocol.AppendInt32(buf, 0)
	buf = protocol.AppendBool(buf, false)
	buf = protocol.AppendVarInt(buf, 0)
	buf = append(buf, encoded...)
	buf = protocol.AppendVarInt(buf, 0)
	buf = protocol.AppendVarInt(buf, 0)

	c, err := DecodeColumn(protocol.NewReader(buf), ctx)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}
	if !reflect.DeepEqual(c.Heightmaps, heightmaps) {
		t.Errorf("Heightmaps = %#v, want %#v", c.Heightmaps, heightmaps)
	}
}

func TestDecodeColumnTruncatedHeader(t *testing.T) {
	ctx := &Context{Profile: ProfileFor(404), Dimension: DimensionOverworld, GlobalPaletteSize: 1 << 14}
	_, err := DecodeColumn(protocol.NewReader([]byte{0, 0, 0, 1, 0, 0}), ctx)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestColumnEncodeDecodeRoundTrip(t *testing.T) {
	ctx := &Context{Profile: ProfileFor(477), Dimension: DimensionOverworld, GlobalPaletteSize: 10000}

	states := make([]int32, SectionVolume)
	for i := range states {
		states[i] = int32(i % 3 * 9)
	}
	sections := make([]*Section, 16)
	for y := range sections {
		sections[y] = &Section{Y: y}
	}
	sections[1] = &Section{
		Y:            1,
		BitsPerBlock: 4,
		Palette:      &IndirectPalette{bits: 4, entries: []int32{0, 9, 18}},
		BlockStates:  states,
	}
	direct := make([]int32, SectionVolume)
	for i := range direct {
		direct[i] = int32(9990 - i%50)
	}
	sections[9] = &Section{
		Y:            9,
		BitsPerBlock: 13,
		Palette:      DirectPalette{bits: 14},
		BlockStates:  direct,
	}

	biomes := make([]int32, BiomeArea)
	for i := range biomes {
		biomes[i] = int32(i % 7)
	}

	original := &Column{
		X:          -12,
		Z:          34,
		Full:       true,
		Sections:   sections,
		Heightmaps: nbt.Compound{"MOTION_BLOCKING": nbt.LongArray{42}},
		Biomes:     biomes,
		BlockEntities: []nbt.Compound{
			{"id": nbt.String("minecraft:chest"), "x": nbt.Int(-190), "y": nbt.Int(20), "z": nbt.Int(550)},
		},
	}
	original.Mask = maskOf(1, 9)

	encoded, err := AppendColumn(nil, original, ctx)
	if err != nil {
		t.Fatalf("AppendColumn: %v", err)
	}
	r := protocol.NewReader(encoded)
	decoded, err := DecodeColumn(r, ctx)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}
	if r.Remaining() != 0 {
		t.Errorf("decode left %d bytes unread", r.Remaining())
	}

	if decoded.X != original.X || decoded.Z != original.Z || !decoded.Full {
		t.Errorf("header = (%d,%d) full=%v", decoded.X, decoded.Z, decoded.Full)
	}
	if !reflect.DeepEqual(decoded.Heightmaps, original.Heightmaps) {
		t.Errorf("Heightmaps = %#v", decoded.Heightmaps)
	}
	if !reflect.DeepEqual(decoded.Biomes, original.Biomes) {
		t.Errorf("Biomes mismatch")
	}
	if !reflect.DeepEqual(decoded.BlockEntities, original.BlockEntities) {
		t.Errorf("BlockEntities = %#v", decoded.BlockEntities)
	}
	for y := 0; y < 16; y++ {
		if decoded.Sections[y].Empty() != original.Sections[y].Empty() {
			t.Fatalf("section %d empty mismatch", y)
		}
		if original.Sections[y].Empty() {
			continue
		}
		if !reflect.DeepEqual(decoded.Sections[y].BlockStates, original.Sections[y].BlockStates) {
			t.Errorf("section %d block states mismatch", y)
		}
	}
}

func TestColumnBlockState(t *testing.T) {
	sections := make([]*Section, 16)
	for y := range sections {
		sections[y] = &Section{Y: y}
	}
	states := make([]int32, SectionVolume)
	states[(5*16+6)*16+7] = 1234 // x=7, y=5, z=6 within the section
	sections[2].BlockStates = states

	c := &Column{Sections: sections}
	if got := c.BlockState(7, 37, 6); got != 1234 {
		t.Errorf("BlockState(7,37,6) = %d, want 1234", got)
	}
	if got := c.BlockState(0, 300, 0); got != 0 {
		t.Errorf("BlockState above the column = %d, want 0", got)
	}
}
