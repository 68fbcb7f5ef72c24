// Command scoperag answers questions from a plain-text Q&A corpus.
package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
