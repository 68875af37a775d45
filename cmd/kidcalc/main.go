// Package main is the entrypoint for the kidcalc binary.
package main

import "kidcalc/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
