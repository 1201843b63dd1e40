package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/pkg/envcheck"
)

var envCheckMode string

var envCheckCmd = &cobra.Command{
	Use:   "check [--mode <mode>]",
	Short: "Checks the env file cascade for mistakes that bite at deploy time",
	Long: `
Checks the merged env file cascade for a mode: secrets under PUBLIC_
names, redefined framework constants, platform-reserved names and names
no shell can export.

Errors make the command exit non-zero; warnings do not.
`,
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		checkEnv()
	},
}

func init() {
	envCmd.AddCommand(envCheckCmd)
	envCheckCmd.Flags().StringVarP(&envCheckMode, "mode", "m", "", "mode to load the cascade for (defaults to the project's default mode)")
}

func checkEnv() {
	p := loadProject(envCheckMode)
	findings := envcheck.Check(p.Set)

	if len(findings) == 0 {
		fmt.Printf("no issues found for mode %q\n", p.Mode)
		return
	}

	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	errs := 0
	for _, f := range findings {
		switch f.Severity {
		case envcheck.Error:
			errs++
			_, _ = red.Fprint(os.Stderr, "error: ")
		default:
			_, _ = yellow.Fprint(os.Stderr, "warning: ")
		}
		fmt.Fprintf(os.Stderr, "%s (%s): %s\n", f.Name, f.Source, f.Message)
	}

	if envcheck.HasErrors(findings) {
		fmt.Fprintf(os.Stderr, "\n%d problem(s) in the env files for mode %q.\n", errs, p.Mode)
		os.Exit(1)
	}
}
