package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Reports the version of the qwik binary",

	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, "qwik version", version.Version)
		if version.Channel != version.GA {
			fmt.Fprintln(os.Stdout, "release channel:", version.Channel)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
