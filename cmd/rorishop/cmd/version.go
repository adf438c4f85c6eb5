package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	gitCommit = "unknown"
)

// SetVersionInfo stores build metadata injected by the linker.
func SetVersionInfo(v, commit string) {
	version = v
	gitCommit = commit
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rorishop %s (%s)\n", version, gitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
