package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
	"github.com/octet-stream/qwik/pkg/envfile"
	"github.com/octet-stream/qwik/pkg/platform"
	"github.com/octet-stream/qwik/pkg/qwikfile"
	"github.com/octet-stream/qwik/pkg/secretscan"
	"github.com/octet-stream/qwik/pkg/xos"
	"github.com/octet-stream/qwik/runtime/env"
)

var (
	envSetMode  string
	envSetLocal bool
)

var envSetCmd = &cobra.Command{
	Use:   "set <name> [value] [--mode <mode>] [--local]",
	Short: "Sets a variable in an env file",
	Long: `
Sets a variable in the project's env file cascade. Without flags the
value is written to .env; --mode writes to .env.<mode>, --local to
.env.local, and both together to .env.<mode>.local.

When no value is given it is read interactively (hidden) or from stdin.
`,
	Example: `
Entering a value directly in terminal:

	$ qwik env set DB_PASSWORD --local
	Enter value: ...
	Set DB_PASSWORD in .env.local.

Piping a value from a file:

	$ qwik env set DB_PASSWORD --local < password.txt
	Set DB_PASSWORD in .env.local.

Note that this strips trailing newlines from the piped value.`,
	Args:                  cobra.RangeArgs(1, 2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		value, haveValue := "", false
		if len(args) == 2 {
			value, haveValue = args[1], true
		}
		setEnv(name, value, haveValue)
	},
}

func init() {
	envCmd.AddCommand(envSetCmd)
	envSetCmd.Flags().StringVarP(&envSetMode, "mode", "m", "", "write to the mode-specific env file")
	envSetCmd.Flags().BoolVarP(&envSetLocal, "local", "l", false, "write to the gitignored .local variant")
}

func setEnv(name, value string, haveValue bool) {
	if !env.ValidName(name) {
		fatalf("invalid variable name %q", name)
	}
	if env.IsBuiltin(name) {
		fatalf("%s is a framework constant and cannot be set through env files", name)
	}
	if platform.Reserved(name) {
		fatalf("%s is reserved by the deployment platform and must be set there, not in env files", name)
	}

	target := envfile.Name
	if envSetMode != "" {
		if !envfile.ValidMode(envSetMode) {
			fatalf("invalid mode %q", envSetMode)
		}
		target += "." + envSetMode
	}
	if envSetLocal {
		target += ".local"
	}

	root, _ := cmdutil.ProjectRoot()
	f, err := qwikfile.ParseFile(filepath.Join(root, qwikfile.Name))
	if err != nil {
		fatal(err)
	}

	if !haveValue {
		value = readValue()
	}

	if env.IsPublic(name) {
		if reason, found := secretscan.Check(name, value); found {
			yellow := color.New(color.FgYellow)
			_, _ = yellow.Fprintf(os.Stderr, "warning: %s: %s; PUBLIC_ variables are inlined into client artifacts\n", name, reason)
		}
	}

	path := filepath.Join(cmdutil.EnvDir(root, f), target)
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatal(err)
	}
	updated, err := envfile.Upsert(content, name, value)
	if err != nil {
		fatal(err)
	}
	// Atomic write: a crash mid-write must not corrupt the file, and
	// the dev server's watcher should see one rename, not partial
	// content.
	if err := xos.WriteFile(path, updated, 0o600); err != nil {
		fatal(err)
	}

	fmt.Fprintf(os.Stderr, "Set %s in %s.\n", name, target)
}

// readValue reads the value from the user. If stdin is a terminal it
// becomes an interactive prompt that hides the input, otherwise it
// reads from stdin.
func readValue() string {
	fd := syscall.Stdin
	if term.IsTerminal(int(fd)) {
		fmt.Fprint(os.Stderr, "Enter value: ")
		data, err := term.ReadPassword(int(fd))
		if err != nil {
			fatal(err)
		}
		fmt.Fprintln(os.Stderr)
		return string(data)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal(err)
	}
	return string(bytes.TrimRight(data, "\r\n"))
}
