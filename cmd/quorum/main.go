// Command quorum resolves team trivia rounds from answer snapshots.
package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ahrav/go-quorum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
