package main

import (
	"fmt"
	"os"

	"github.com/coderngaonger/rorishop.io/cmd/rorishop/cmd"
)

// Version information set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	cmd.SetVersionInfo(Version, GitCommit)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
