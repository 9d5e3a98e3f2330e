// netsweep is a concurrent network discovery and port scanning tool.
package main

import "github.com/avrost/netsweep/cmd/cli"

// Build information - set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
