// Package main is the entry point for the port-for CLI.
//
// All functionality lives in internal/cli. Build-time variables are
// injected via ldflags and default to "dev", "none" and "unknown".
package main

import (
	"github.com/shinji-kodama/port-for/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
