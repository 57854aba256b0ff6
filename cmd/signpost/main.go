// Command signpost serves the pages listed in a manifest.
//
// Usage:
//
//	signpost serve  [--manifest path] [--pages dir] [--addr addr] [--watch] [--skip-broken]
//	signpost check  [--manifest path] [--pages dir] [--skip-broken]
//	signpost routes [--manifest path] [--pages dir] [--skip-broken]
//
// Flags left unset fall back to the MANIFEST, PAGES_DIR, PORT, WATCH and SKIP_BROKEN_PAGES env vars.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
