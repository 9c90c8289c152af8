package chunk

// MaskWidth selects the wire encoding of the section presence mask.
type MaskWidth int

const (
	MaskVarInt MaskWidth = iota // protocol 70+
	MaskInt32                   // protocol 69
	MaskUint16                  // protocol 47 band
)

// Dimension classifies the world a column belongs to. Only the overworld
// carries sky light.
type Dimension int

const (
	DimensionNether    Dimension = -1
	DimensionOverworld Dimension = 0
	DimensionEnd       Dimension = 1
)

// Protocol version cutovers observed on the wire. The mask width boundaries
// should be re-checked against an authoritative protocol reference before
// adding support for versions between the bands listed here.
const (
	versionVarIntMask  = 70  // mask becomes a VarInt
	versionHeightmaps  = 443 // heightmap NBT added to the column header
	versionNoLegacyLit = 441 // per-section light arrays removed
)

// Profile collects every protocol-version-dependent layout decision. It is
// resolved once per decode call and never consulted as scattered
// conditionals past construction.
type Profile struct {
	ProtocolVersion int32

	MaskWidth      MaskWidth
	HasHeightmaps  bool // column header carries a heightmap tag tree
	HasLegacyLight bool // sections carry trailing light arrays

	// MinIndirectBits is the floor applied to a declared bits-per-block
	// value when selecting an indirect palette. 4 on every supported
	// version, kept here rather than hard-coded at the use site.
	MinIndirectBits uint

	// SectionCount is the fixed number of vertical section slots.
	SectionCount int
}

// ProfileFor resolves the format profile for a protocol version.
func ProfileFor(protocolVersion int32) Profile {
	p := Profile{
		ProtocolVersion: protocolVersion,
		MaskWidth:       MaskUint16,
		HasHeightmaps:   protocolVersion >= versionHeightmaps,
		HasLegacyLight:  protocolVersion < versionNoLegacyLit,
		MinIndirectBits: 4,
		SectionCount:    16,
	}
	switch {
	case protocolVersion >= versionVarIntMask:
		p.MaskWidth = MaskVarInt
	case protocolVersion == versionVarIntMask-1:
		p.MaskWidth = MaskInt32
	}
	return p
}

// Context carries the per-decode inputs injected by the session layer: the
// resolved format profile, the dimension of the column being decoded, and
// the size of the global block-state id space, which fixes the direct
// palette's bit width.
type Context struct {
	Profile           Profile
	Dimension         Dimension
	GlobalPaletteSize int32
}
