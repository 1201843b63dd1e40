package server

import (
	"io"
	"net/http"
	"sort"

	"github.com/octet-stream/qwik/pkg/fns"
	"github.com/octet-stream/qwik/runtime/env"
)

// EnvVar is the wire shape of a single variable in the env manifest.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// manifest is the payload of GET /__qwik/env.json: the same data the
// client script carries, as a plain JSON document for tooling.
type manifest struct {
	Mode string   `json:"mode"`
	Env  []EnvVar `json:"env"`
}

func (s *Server) registerQwikRoutes() {
	s.qwik.Handler(http.MethodGet, "/env.js", http.HandlerFunc(s.serveEnvScript))
	s.qwik.Handler(http.MethodGet, "/env.json", http.HandlerFunc(s.serveEnvManifest))
	if s.dev {
		s.qwik.Handler(http.MethodGet, "/reload", http.HandlerFunc(s.reloadSocket))
	}
}

// serveEnvScript serves the client view of the build-time snapshot as a
// JavaScript snippet, for pages that load it with a <script src> tag
// instead of inlining Snapshot.ClientScript into the rendered HTML.
func (s *Server) serveEnvScript(w http.ResponseWriter, req *http.Request) {
	snap := s.Snapshot().ForClient()

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	s.setCacheHeader(w)
	_, _ = io.WriteString(w, snap.ClientScript())
}

// serveEnvManifest serves the client view of the snapshot as JSON.
func (s *Server) serveEnvManifest(w http.ResponseWriter, req *http.Request) {
	snap := s.Snapshot().ForClient()

	names := snap.Names()
	sort.Strings(names)

	builtins := []string{
		env.BuiltinBaseURL, env.BuiltinMode, env.BuiltinDev, env.BuiltinProd, env.BuiltinSSR,
	}
	vars := make([]EnvVar, 0, len(builtins)+len(names))
	vars = append(vars, fns.Map(builtins, func(name string) EnvVar {
		return EnvVar{Name: name, Value: snap.Get(name)}
	})...)
	vars = append(vars, fns.Map(names, func(name string) EnvVar {
		return EnvVar{Name: name, Value: snap.Public[name]}
	})...)

	data, err := s.json.Marshal(manifest{Mode: snap.Mode, Env: vars})
	if err != nil {
		http.Error(w, "unable to encode env manifest", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.setCacheHeader(w)
	_, _ = w.Write(data)
}

// setCacheHeader marks env responses uncacheable in development, where
// the snapshot is rebuilt whenever the cascade changes on disk. In
// production the snapshot is fixed for the lifetime of the deploy and
// caching policy is left to the origin.
func (s *Server) setCacheHeader(w http.ResponseWriter) {
	if s.dev {
		w.Header().Set("Cache-Control", "no-store")
	}
}
