// Command cookoffd is the competition server: one process, one SQLite file,
// serving the full HTTP API for offline event operation.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/grillwire/cookoff/internal/buildinfo"
)

func main() {
	log.Printf("cookoffd %s (%s, built %s)", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
