package main

import (
	"os"

	"github.com/vbonduro/smartrecycle/cmd/smartrecycle/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
