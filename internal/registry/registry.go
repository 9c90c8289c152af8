// Package registry loads block-state data in the minecraft-data layout and
// reports the size of the global block-state id space, which fixes the
// direct palette's bit width.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Block is one entry of a minecraft-data blocks.json document, reduced to
// the fields the codec cares about.
type Block struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	MinStateID *int32 `json:"minStateId"`
	MaxStateID *int32 `json:"maxStateId"`
}

// Registry is the loaded block-state table.
type Registry struct {
	blocks     []Block
	stateCount int32
}

// Load reads a blocks.json file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(data)
}

// Parse builds a Registry from raw blocks.json content. Versions that
// predate flattened block states omit minStateId/maxStateId; their id space
// is the legacy id<<4|meta encoding.
func Parse(data []byte) (*Registry, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("parse registry: no blocks")
	}

	var stateCount int32
	for _, b := range blocks {
		switch {
		case b.MaxStateID != nil:
			if max := *b.MaxStateID + 1; max > stateCount {
				stateCount = max
			}
		default:
			if max := (b.ID + 1) << 4; max > stateCount {
				stateCount = max
			}
		}
	}
	return &Registry{blocks: blocks, stateCount: stateCount}, nil
}

// StateCount returns the size of the global block-state id space.
func (r *Registry) StateCount() int32 { return r.stateCount }

// Blocks returns the loaded block table.
func (r *Registry) Blocks() []Block { return r.blocks }
