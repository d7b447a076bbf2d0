package main

import (
	"os"

	"github.com/simonhull/roost/internal/commands"
)

func main() {
	os.Exit(commands.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
