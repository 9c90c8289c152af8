// Package anvil reads .mca region files and hands their chunks to the tag
// codec. It exists for offline inspection of stored worlds; the network
// column decoder does not depend on it.
package anvil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/OCharnyshevich/chunkwire/internal/nbt"
	"github.com/OCharnyshevich/chunkwire/internal/protocol"
)

const (
	sectorSize = 4096
	maxOffsets = 1024 // 32x32 chunks per region

	compressionGzip = 1
	compressionZlib = 2
)

var (
	ErrNoChunk            = errors.New("anvil: chunk not found")
	ErrInvalidChunkLength = errors.New("anvil: invalid chunk length")
	ErrInvalidCompression = errors.New("anvil: invalid compression format")
)

// Region reads chunks out of one .mca region file. Not safe for concurrent
// use; guard with a mutex if shared.
type Region struct {
	source      io.ReadSeeker
	sectorTable []int32
	Name        string
}

// Open opens a region file by path.
func Open(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRegion(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewRegion creates a Region over source. Ownership of source transfers to
// the Region.
func NewRegion(source io.ReadSeeker) (*Region, error) {
	r := &Region{
		source:      source,
		sectorTable: make([]int32, maxOffsets),
	}
	if f, ok := source.(*os.File); ok {
		r.Name = f.Name()
	}
	if err := r.readSectorTable(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Region) readSectorTable() error {
	if _, err := r.source.Seek(0, io.SeekStart); err != nil {
		return err
	}
	raw := make([]byte, sectorSize)
	if _, err := io.ReadFull(r.source, raw); err != nil {
		return fmt.Errorf("anvil: read sector table: %w", err)
	}
	return binary.Read(bytes.NewReader(raw), binary.BigEndian, r.sectorTable)
}

// ChunkExists reports whether the chunk at region-local x, z has data.
func (r *Region) ChunkExists(x, z int) bool {
	return r.sectorTable[x+z*32] != 0
}

// ReadChunk returns the uncompressed NBT payload of the chunk at
// region-local coordinates x, z in [0, 32).
func (r *Region) ReadChunk(x, z int) ([]byte, error) {
	offset := r.sectorTable[x+z*32]
	sectorNumber := offset >> 8
	occupiedSectors := offset & 0xff
	if sectorNumber == 0 {
		return nil, ErrNoChunk
	}

	if _, err := r.source.Seek(int64(sectorNumber)*sectorSize, io.SeekStart); err != nil {
		return nil, err
	}
	sectorData := make([]byte, occupiedSectors*sectorSize)
	if _, err := io.ReadFull(r.source, sectorData); err != nil {
		return nil, err
	}

	length := int32(binary.BigEndian.Uint32(sectorData))
	if length < 1 || length > int32(len(sectorData)-4) {
		return nil, ErrInvalidChunkLength
	}
	compression := sectorData[4]
	compressed := bytes.NewReader(sectorData[5 : 4+length])

	var stream io.ReadCloser
	var err error
	switch compression {
	case compressionGzip:
		stream, err = gzip.NewReader(compressed)
	case compressionZlib:
		stream, err = zlib.NewReader(compressed)
	default:
		return nil, ErrInvalidCompression
	}
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return io.ReadAll(stream)
}

// ReadChunkTag reads and decodes the chunk at x, z into a tag tree.
func (r *Region) ReadChunkTag(x, z int) (nbt.Compound, error) {
	payload, err := r.ReadChunk(x, z)
	if err != nil {
		return nil, err
	}
	_, root, err := nbt.DecodeCompound(protocol.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anvil: chunk %d,%d in %s: %w", x, z, r.Name, err)
	}
	return root, nil
}

// Close closes the underlying source if it is closeable.
func (r *Region) Close() error {
	if closer, ok := r.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
