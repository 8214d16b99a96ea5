// Command tickql runs a game whose logic is a SQL script.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tickql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
