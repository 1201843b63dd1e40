package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
	"github.com/octet-stream/qwik/pkg/envfile"
	"github.com/octet-stream/qwik/runtime/env"
)

var envListMode string

var envListFormat = cmdutil.Oneof{
	Value:   "table",
	Allowed: []string{"table", "json", "dotenv"},
	Flag:    "format",
	Desc:    "Output format",
}

var envListCmd = &cobra.Command{
	Use:   "list [--mode <mode>] [--format table|json|dotenv]",
	Short: "Lists the variables defined by the env file cascade",
	Long: `
Lists the merged result of loading the env file cascade for a mode:

	.env                base values, committed
	.env.local          local overrides, gitignored
	.env.<mode>         mode-specific values, committed
	.env.<mode>.local   mode-specific local overrides, gitignored

Variables also present in the process environment are marked as
shadowed, since process values win at runtime.
`,
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		listEnv()
	},
}

func init() {
	envCmd.AddCommand(envListCmd)
	envListCmd.Flags().StringVarP(&envListMode, "mode", "m", "", "mode to load the cascade for (defaults to the project's default mode)")
	envListFormat.AddFlag(envListCmd)
}

type envEntry struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Kind     string `json:"kind"`
	Source   string `json:"source"`
	Shadowed bool   `json:"shadowed,omitempty"`
}

func listEnv() {
	p := loadProject(envListMode)

	entries := make([]envEntry, 0, len(p.Set.Vars))
	for _, name := range p.Set.Names() {
		_, shadowed := os.LookupEnv(name)
		entries = append(entries, envEntry{
			Name:     name,
			Value:    p.Set.Vars[name],
			Kind:     string(env.Classify(name)),
			Source:   p.Set.Sources[name],
			Shadowed: shadowed,
		})
	}

	switch envListFormat.Value {
	case "json":
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(out))
	case "dotenv":
		for _, e := range entries {
			quoted, err := envfile.Quote(e.Value)
			if err != nil {
				fatalf("unable to render %s: %v", e.Name, err)
			}
			fmt.Printf("%s=%s\n", e.Name, quoted)
		}
	default:
		if len(entries) == 0 {
			fmt.Fprintf(os.Stderr, "no variables defined for mode %q in %s\n", p.Mode, p.Set.Dir)
			return
		}
		printEnvTable(entries)
	}
}

func printEnvTable(entries []envEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tVALUE\tSOURCE")
	for _, e := range entries {
		source := e.Source
		if e.Shadowed {
			source += " (shadowed by process env)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Kind, e.Value, source)
	}
	_ = w.Flush()
}
