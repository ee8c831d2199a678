package main

import (
	"os"

	"go.lox.dev/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
