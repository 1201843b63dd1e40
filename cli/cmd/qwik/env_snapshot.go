package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
	"github.com/octet-stream/qwik/runtime/env"
)

// embedSymbol is the linker symbol the runtime reads the embedded
// snapshot from.
const embedSymbol = "github.com/octet-stream/qwik/runtime/env.embedded"

var (
	envSnapshotMode string
	envSnapshotBase string
)

var envSnapshotFormat = cmdutil.Oneof{
	Value:   "json",
	Allowed: []string{"json", "ldflags", "script"},
	Flag:    "format",
	Desc:    "Output format",
}

var envSnapshotCmd = &cobra.Command{
	Use:   "snapshot [--mode <mode>] [--base <path>] [--format json|ldflags|script]",
	Short: "Builds the build-time env snapshot",
	Long: `
Builds the build-time snapshot for a mode: the framework constants plus
every PUBLIC_ variable from the process environment and the env file
cascade. Server-side variables never enter the snapshot.

The ldflags format prints the linker flag that embeds the snapshot into
a server binary:

	go build -ldflags "$(qwik env snapshot --format ldflags)" ./...

The script format prints the client view of the snapshot as the
JavaScript snippet served at /__qwik/env.js.
`,
	Args:                  cobra.NoArgs,
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		snapshotEnv()
	},
}

func init() {
	envCmd.AddCommand(envSnapshotCmd)
	envSnapshotCmd.Flags().StringVarP(&envSnapshotMode, "mode", "m", "", "mode to build the snapshot for (defaults to the project's default mode)")
	envSnapshotCmd.Flags().StringVar(&envSnapshotBase, "base", "", "base path to embed (defaults to qwik.json's base)")
	envSnapshotFormat.AddFlag(envSnapshotCmd)
}

func snapshotEnv() {
	p := loadProject(envSnapshotMode)

	base := envSnapshotBase
	if base == "" {
		base = p.File.Base
	}

	mgr := env.NewManager(env.ManagerConfig{
		Log:      log.Logger,
		Mode:     p.Mode,
		FileVars: p.Set.Vars,
	})
	snap := mgr.Snapshot(p.Mode, base)

	switch envSnapshotFormat.Value {
	case "ldflags":
		fmt.Printf("-X %s=%s\n", embedSymbol, snap.Encode())
	case "script":
		fmt.Print(snap.ForClient().ClientScript())
	default:
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(out))
	}
}
