package main

import (
	"os"

	"github.com/wheelhouse-quant/wheelhouse/cmd/wheel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
