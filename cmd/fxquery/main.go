package main

import (
	"os"

	"github.com/damon-houk/fx-rate-client/cmd/fxquery/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
