// Command qbuild compiles YAML query documents to SQL and runs them.
//
// Usage:
//
//	qbuild [--config qbuild.yaml] [--verbose] <command>
//
// Commands:
//   - compile: print the SQL and params a document compiles to
//   - exec: run a document against the configured database
//   - config show: print the effective configuration
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
