package main

import (
	"os"

	"cropcare/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
