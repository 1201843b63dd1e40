package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:           "qwik",
	Short:         "qwik serves Qwik applications and manages their environment",
	SilenceErrors: true, // We'll handle displaying an error in our main func
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true, // Hide the "completion" command from help (used for generating auto-completions for the shell)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbosity == 1 {
			level = zerolog.DebugLevel
		} else if verbosity >= 2 {
			level = zerolog.TraceLevel
		}
		log.Logger = log.Logger.Level(level)
	},
}

func main() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output")
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(args ...any) {
	cmdutil.Fatal(args...)
}

func fatalf(format string, args ...any) {
	cmdutil.Fatalf(format, args...)
}
