package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/octet-stream/qwik/cli/cmd/qwik/cmdutil"
	"github.com/octet-stream/qwik/internal/ttlcache"
	"github.com/octet-stream/qwik/internal/urlutil"
	"github.com/octet-stream/qwik/pkg/envfile"
	"github.com/octet-stream/qwik/pkg/environ"
	"github.com/octet-stream/qwik/pkg/platform"
	"github.com/octet-stream/qwik/pkg/qwikfile"
	"github.com/octet-stream/qwik/runtime/env"
	"github.com/octet-stream/qwik/runtime/server"
)

var (
	serveMode  string
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [--mode <mode>] [--watch=true] [--port=5173] [--host=<host>]",
	Short: "Serves your application",
	Long: `
Serves the application with the environment surface wired in: the
build-time snapshot at /__qwik/env.js and /__qwik/env.json, server-side
variables resolved per request, and, in development, a reload socket
that tells clients to refresh when the env files change on disk.

Settings come from qwik.json and can be overridden with the QWIK_HOST,
QWIK_PORT and QWIK_MODE process variables and with flags. A
platform-assigned PORT always wins and binds all interfaces.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		serveApp(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", "", "mode to serve in (defaults to the project's default mode)")
	serveCmd.Flags().StringVar(&serveHost, "host", qwikfile.DefaultHost, "address to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", qwikfile.DefaultPort, "port to listen on")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", true, "watch the env files and live-reload clients")
}

// serveOverrides holds the QWIK_-prefixed process variables that
// override qwik.json's server settings.
type serveOverrides struct {
	Host string
	Port int
	Mode string
}

func serveApp(cmd *cobra.Command) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-interrupt
		cancel()
	}()

	root, _ := cmdutil.ProjectRoot()
	projectPath := filepath.Join(root, qwikfile.Name)
	f, err := qwikfile.ParseFile(projectPath)
	if err != nil {
		fatal(err)
	}

	var overrides serveOverrides
	if err := envconfig.Process("qwik", &overrides); err != nil {
		fatal(err)
	}

	// Precedence: flags, then QWIK_ variables, then qwik.json.
	mode := f.DefaultMode
	if overrides.Mode != "" {
		mode = overrides.Mode
	}
	if cmd.Flags().Changed("mode") {
		mode = serveMode
	}

	host := f.Server.Host
	if overrides.Host != "" {
		host = overrides.Host
	}
	if cmd.Flags().Changed("host") {
		host = serveHost
	}

	port := f.Server.Port
	if overrides.Port != 0 {
		port = overrides.Port
	}
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	envDir := cmdutil.EnvDir(root, f)
	set, err := envfile.Load(envDir, mode)
	if err != nil {
		fatal(err)
	}
	for _, w := range set.Warnings {
		log.Warn().Msg(w.String())
	}

	manager := env.NewManager(env.ManagerConfig{
		Log:      log.Logger,
		Mode:     mode,
		FileVars: set.Vars,
	})

	srv := server.New(server.Config{
		Snapshot: manager.Snapshot(mode, f.Base),
		Manager:  manager,
		Logger:   log.Logger,
		Host:     host,
		Port:     port,
	})

	projectFile := ttlcache.New(1*time.Second, func() (*qwikfile.File, error) {
		return qwikfile.ParseFile(projectPath)
	})
	registerDevPage(srv, projectFile)

	osEnv := environ.FromOS()
	if info := platform.Detect(osEnv); info.Kind != platform.Node {
		log.Info().Str("platform", string(info.Kind)).Msg("detected deployment platform")
	}
	origin, err := platform.Origin(osEnv)
	if err != nil {
		fatal(err)
	}
	if origin == "" {
		origin = f.Origin
	}
	if origin != "" {
		log.Info().Str("url", urlutil.Join(origin, f.Base)).Msg("app public URL")
	}

	if serveWatch {
		go watchEnvFiles(ctx, srv, manager, envDir, mode, f.Base)
	}

	cyan := color.New(color.FgCyan)

	// PaaS platforms assign the port; when PORT is set it wins and the
	// server binds all interfaces.
	if _, ok := osEnv.Lookup(platform.EnvPort); ok {
		addr, err := platform.ListenAddr(osEnv, port)
		if err != nil {
			fatal(err)
		}
		_, _ = cyan.Fprintf(os.Stderr, "\n  %s server listening on %s (platform PORT)\n\n", mode, addr)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			fatal(err)
		}
		if err := srv.Serve(ctx, ln); err != nil {
			fatal(err)
		}
		return
	}

	_, _ = cyan.Fprintf(os.Stderr, "\n  %s server ready on http://%s:%d%s\n\n", mode, host, port, f.Base)
	if err := srv.ListenAndServe(ctx); err != nil {
		fatal(err)
	}
}

// watchEnvFiles reloads the cascade when it changes on disk, swaps the
// server's snapshot and tells connected clients to refresh.
func watchEnvFiles(ctx context.Context, srv *server.Server, manager *env.Manager, dir, mode, base string) {
	err := envfile.Watch(ctx, dir, func() {
		set, err := envfile.Load(dir, mode)
		if err != nil {
			log.Warn().Err(err).Msg("unable to reload env files")
			return
		}
		for _, w := range set.Warnings {
			log.Warn().Msg(w.String())
		}
		manager.ReplaceFileVars(set.Vars)
		srv.SetSnapshot(manager.Snapshot(mode, base))
		srv.NotifyReload()
		log.Info().Str("mode", mode).Msg("env files changed, clients reloading")
	})
	if err != nil {
		log.Error().Err(err).Msg("env file watcher stopped")
	}
}
