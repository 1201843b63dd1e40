package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
	"github.com/octet-stream/qwik/pkg/envfile"
	"github.com/octet-stream/qwik/pkg/qwikfile"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Environment variable commands",
}

func init() {
	rootCmd.AddCommand(envCmd)
}

// project bundles what the env commands work on: the project root, the
// parsed qwik.json and the env file cascade for the selected mode.
type project struct {
	Root string
	File *qwikfile.File
	Mode string
	Set  *envfile.Set
}

// loadProject locates the project root, parses qwik.json and loads the
// env cascade. An empty mode selects the project's default mode.
// Cascade warnings are printed to stderr. On errors it prints an error
// message and exits.
func loadProject(mode string) *project {
	root, _ := cmdutil.ProjectRoot()
	f, err := qwikfile.ParseFile(filepath.Join(root, qwikfile.Name))
	if err != nil {
		fatal(err)
	}

	if mode == "" {
		mode = f.DefaultMode
	}

	set, err := envfile.Load(cmdutil.EnvDir(root, f), mode)
	if err != nil {
		fatal(err)
	}
	for _, w := range set.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	return &project{Root: root, File: f, Mode: mode, Set: set}
}
