// Package main bundles the UI editor script and stylesheet with esbuild and
// writes them to internal/ui/resources/static, where production builds
// embed them.
//
// Usage:
//
//	go run ./scripts/bundleassets
//	go run ./scripts/bundleassets -minify=false
package main

import (
	"flag"
	"log"

	"github.com/leapstack-labs/sqllens/internal/ui/resources"
)

var minifyFlag = flag.Bool("minify", true, "minify the bundled output")

func main() {
	flag.Parse()

	dir, err := resources.Dir()
	if err != nil {
		log.Fatalf("failed to locate resources: %v", err)
	}

	if err := resources.Rebuild(dir, *minifyFlag); err != nil {
		log.Fatalf("failed to bundle assets: %v", err)
	}

	log.Printf("Bundled %s and %s into %s", resources.ScriptName, resources.StyleName, resources.StaticDirectoryPath)
}
