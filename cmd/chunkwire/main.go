package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/OCharnyshevich/chunkwire/internal/anvil"
	"github.com/OCharnyshevich/chunkwire/internal/chunk"
	"github.com/OCharnyshevich/chunkwire/internal/nbt"
	"github.com/OCharnyshevich/chunkwire/internal/protocol"
	"github.com/OCharnyshevich/chunkwire/internal/registry"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	app := &cli.App{
		Name:  "chunkwire",
		Usage: "decode chunk column and tag tree payloads",
		Commands: []*cli.Command{
			{
				Name:      "column",
				Usage:     "decode a raw chunk column payload and print a summary",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "protocol", Value: 477, Usage: "protocol version of the payload"},
					&cli.IntFlag{Name: "dimension", Value: 0, Usage: "dimension (-1 nether, 0 overworld, 1 end)"},
					&cli.StringFlag{Name: "blocks", Usage: "path to blocks.json for the global palette size"},
					&cli.IntFlag{Name: "states", Value: 1 << 14, Usage: "global palette size when --blocks is not given"},
				},
				Action: func(c *cli.Context) error {
					return decodeColumn(c, log)
				},
			},
			{
				Name:      "nbt",
				Usage:     "decode a tag tree payload and print it as SNBT",
				ArgsUsage: "FILE",
				Action:    dumpTagTree,
			},
			{
				Name:      "region",
				Usage:     "list chunks in a region file, or dump one as SNBT",
				ArgsUsage: "FILE [X Z]",
				Action: func(c *cli.Context) error {
					return dumpRegion(c, log)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func decodeColumn(c *cli.Context, log *slog.Logger) error {
	if c.NArg() != 1 {
		return fmt.Errorf("need a payload file")
	}
	payload, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	states := int32(c.Int("states"))
	if path := c.String("blocks"); path != "" {
		reg, err := registry.Load(path)
		if err != nil {
			return err
		}
		states = reg.StateCount()
		log.Info("registry loaded", "path", path, "states", states)
	}

	ctx := &chunk.Context{
		Profile:           chunk.ProfileFor(int32(c.Int("protocol"))),
		Dimension:         chunk.Dimension(c.Int("dimension")),
		GlobalPaletteSize: states,
	}
	column, err := chunk.DecodeColumn(protocol.NewReader(payload), ctx)
	if err != nil {
		return err
	}

	populated := 0
	for _, s := range column.Sections {
		if !s.Empty() {
			populated++
		}
	}
	fmt.Printf("chunk %d,%d full=%v sections=%d/%d blockEntities=%d\n",
		column.X, column.Z, column.Full, populated, len(column.Sections), len(column.BlockEntities))
	for _, s := range column.Sections {
		if s.Empty() {
			continue
		}
		fmt.Printf("  section %2d: bitsPerBlock=%d effective=%d\n", s.Y, s.BitsPerBlock, s.Palette.Bits())
	}
	if column.Heightmaps != nil {
		fmt.Printf("heightmaps: %s\n", nbt.Stringify(column.Heightmaps))
	}
	return nil
}

func dumpTagTree(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("need a payload file")
	}
	payload, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	name, tag, err := nbt.Decode(protocol.NewReader(payload))
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", name, nbt.Stringify(tag))
	return nil
}

func dumpRegion(c *cli.Context, log *slog.Logger) error {
	if c.NArg() != 1 && c.NArg() != 3 {
		return fmt.Errorf("need a region file, optionally with chunk X Z")
	}
	region, err := anvil.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer region.Close()

	if c.NArg() == 3 {
		var x, z int
		if _, err := fmt.Sscanf(c.Args().Get(1)+" "+c.Args().Get(2), "%d %d", &x, &z); err != nil {
			return fmt.Errorf("bad chunk coordinates: %w", err)
		}
		root, err := region.ReadChunkTag(x, z)
		if err != nil {
			return err
		}
		fmt.Println(nbt.Stringify(root))
		return nil
	}

	found := 0
	for z := 0; z < 32; z++ {
		for x := 0; x < 32; x++ {
			if region.ChunkExists(x, z) {
				fmt.Printf("%d,%d\n", x, z)
				found++
			}
		}
	}
	log.Info("region scanned", "name", region.Name, "chunks", found)
	return nil
}
