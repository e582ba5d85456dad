package main

import (
	"os"

	"github.com/gerunddev/refdoc/internal/commands"
)

func main() {
	os.Exit(commands.Run(os.Args[1:], os.Stdout, os.Stderr))
}
