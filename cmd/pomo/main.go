// Package main is the entrypoint for the pomo terminal timer.
package main

import "pomo/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
