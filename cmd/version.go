package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-match/internal/analyzer"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the size of the built-in skill dictionary",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (%d dictionary terms)\n", app, version, analyzer.DefaultDictionary().Len())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
