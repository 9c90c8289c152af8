package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

// fetchdata downloads the minecraft-data tables for one version, so the
// chunkwire CLI can resolve the global palette size from blocks.json.
func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of data tables")
		ver      = flag.String("version", "1.14", "game version of data tables")
		out      = flag.String("o", "./data", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		panic("output dir path required")
	}

	if *platform == "" {
		panic("platform required")
	}

	if *ver == "" {
		panic("version required")
	}

	path := fmt.Sprintf("%s/%s-%s", *out, *platform, *ver)

	if err := os.RemoveAll(path); err != nil {
		panic(err)
	}

	log.Default().Printf("start downloading data tables %s", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.14
	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)

	if err := get.Get(path, url); err != nil {
		panic(err)
	}

	log.Default().Printf("done downloading data tables %s", path)
}
