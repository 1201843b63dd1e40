package main

import (
	"fmt"
	"os"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/pkg/fns"
	"github.com/octet-stream/qwik/runtime/env"
)

var envGetMode string

var envGetCmd = &cobra.Command{
	Use:   "get <name> [--mode <mode>]",
	Short: "Prints the value of an environment variable",
	Long: `
Prints the value of an environment variable the way the server resolves
it: the process environment first, then the env file cascade.

The value goes to stdout; the variable's classification goes to stderr,
so the command is safe to use in scripts.
`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		getEnv(args[0])
	},
}

func init() {
	envCmd.AddCommand(envGetCmd)
	envGetCmd.Flags().StringVarP(&envGetMode, "mode", "m", "", "mode to load the cascade for (defaults to the project's default mode)")
}

func getEnv(name string) {
	p := loadProject(envGetMode)

	mgr := env.NewManager(env.ManagerConfig{
		Log:      log.Logger,
		Mode:     p.Mode,
		FileVars: p.Set.Vars,
	})

	if env.IsBuiltin(name) {
		snap := mgr.Snapshot(p.Mode, p.File.Base)
		fmt.Fprintf(os.Stderr, "%s is a framework constant\n", name)
		fmt.Println(snap.Get(name))
		return
	}

	val, ok := mgr.Lookup(name)
	if !ok {
		if suggestion := closestName(name, mgr.Keys()); suggestion != "" {
			fatalf("%s is not defined for mode %q (did you mean %s?)", name, p.Mode, suggestion)
		}
		fatalf("%s is not defined for mode %q", name, p.Mode)
	}

	switch env.Classify(name) {
	case env.Public:
		fmt.Fprintf(os.Stderr, "%s is a public variable; its value is inlined into built artifacts\n", name)
	default:
		fmt.Fprintf(os.Stderr, "%s is a server-side variable; its value stays on the server\n", name)
	}
	fmt.Println(val)
}

// closestName suggests the defined name likeliest to be a misspelling
// of name, or "" when nothing is close enough to be worth suggesting.
func closestName(name string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	distances := fns.Map(names, func(n string) int {
		return levenshtein.ComputeDistance(n, name)
	})
	best := 0
	for i := range names {
		if distances[i] < distances[best] {
			best = i
		}
	}
	// A distance beyond a third of the name means it is probably not a
	// typo.
	if distances[best] > max(len(name)/3, 2) {
		return ""
	}
	return names[best]
}
