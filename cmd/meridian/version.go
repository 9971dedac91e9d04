package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the meridian release version, overridden at build time via
// -ldflags "-X main.Version=...".
var Version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the meridian version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("meridian %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
