package nbt

import "errors"

// TagID identifies one of the thirteen wire tag kinds.
type TagID byte

const (
	TagEnd       TagID = 0
	TagByte      TagID = 1
	TagShort     TagID = 2
	TagInt       TagID = 3
	TagLong      TagID = 4
	TagFloat     TagID = 5
	TagDouble    TagID = 6
	TagByteArray TagID = 7
	TagString    TagID = 8
	TagList      TagID = 9
	TagCompound  TagID = 10
	TagIntArray  TagID = 11
	TagLongArray TagID = 12
)

var tagNames = [...]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

func (id TagID) String() string {
	if int(id) < len(tagNames) {
		return tagNames[id]
	}
	return "Unknown"
}

var (
	// ErrUnknownTag is returned for a tag id outside 0-12. The tree length
	// cannot be inferred past an unknown id, so the decode is abandoned.
	ErrUnknownTag = errors.New("unknown tag id")

	// ErrMaxDepth is returned when tag nesting exceeds MaxDepth.
	ErrMaxDepth = errors.New("max tag depth exceeded")
)

// MaxDepth bounds tag-tree recursion. Legitimate chunk metadata nests a
// handful of levels; anything near this limit is a hostile or corrupt stream.
const MaxDepth = 512

// Tag is one node of a decoded tag tree. The set of implementations is
// closed: exactly one concrete type per wire kind, End excepted (End is a
// compound terminator on the wire and never materializes as a value).
type Tag interface {
	ID() TagID
}

type Byte int8
type Short int16
type Int int32
type Long int64
type Float float32
type Double float64
type ByteArray []byte
type String string
type IntArray []int32
type LongArray []int64

// List holds a homogeneous sequence. ElemID is the declared element kind and
// is retained even when Elems is empty so encoding reproduces the original
// bytes.
type List struct {
	ElemID TagID
	Elems  []Tag
}

// Compound is an unordered name-to-tag mapping.
type Compound map[string]Tag

func (Byte) ID() TagID      { return TagByte }
func (Short) ID() TagID     { return TagShort }
func (Int) ID() TagID       { return TagInt }
func (Long) ID() TagID      { return TagLong }
func (Float) ID() TagID     { return TagFloat }
func (Double) ID() TagID    { return TagDouble }
func (ByteArray) ID() TagID { return TagByteArray }
func (String) ID() TagID    { return TagString }
func (List) ID() TagID      { return TagList }
func (Compound) ID() TagID  { return TagCompound }
func (IntArray) ID() TagID  { return TagIntArray }
func (LongArray) ID() TagID { return TagLongArray }
