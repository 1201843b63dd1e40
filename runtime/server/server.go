// Package server implements the HTTP server that hosts a Qwik
// application's server-side rendering. It wires the environment surface
// into the request pipeline: every request can resolve server-side
// variables through its context, and the built-time snapshot is exposed
// to clients through the /__qwik routes.
package server

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/octet-stream/qwik/pkg/logging"
	"github.com/octet-stream/qwik/runtime/env"
)

// internalPrefix is the path prefix the framework reserves for its own
// routes. Application routes cannot be registered under it.
const internalPrefix = "/__qwik"

// Config configures a Server.
type Config struct {
	// Snapshot is the build-time environment served to clients.
	Snapshot *env.Snapshot

	// Manager resolves server-side variables at request time.
	Manager *env.Manager

	Logger zerolog.Logger

	// Host and Port form the listen address for ListenAndServe.
	Host string
	Port int
}

type Server struct {
	log     zerolog.Logger
	manager *env.Manager
	json    jsoniter.API
	dev     bool
	addr    string

	snap atomic.Pointer[env.Snapshot]

	app     *httprouter.Router
	qwik    *httprouter.Router
	httpsrv *http.Server
	reload  *reloadHub
}

// New returns a server for the given configuration. The snapshot
// decides the mode: development builds get the reload socket and
// indented JSON, production builds get neither.
func New(cfg Config) *Server {
	app := httprouter.New()
	app.HandleOPTIONS = false
	app.RedirectFixedPath = false
	app.RedirectTrailingSlash = false

	qwik := httprouter.New()
	qwik.HandleOPTIONS = false
	qwik.RedirectFixedPath = false
	qwik.RedirectTrailingSlash = false

	snap := cfg.Snapshot
	if snap == nil {
		snap = env.NewSnapshot("", "", nil)
	}

	s := &Server{
		log:     cfg.Logger,
		manager: cfg.Manager,
		json:    jsonAPI(snap.Dev),
		dev:     snap.Dev,
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),

		app:    app,
		qwik:   qwik,
		reload: newReloadHub(cfg.Logger),
	}
	s.snap.Store(snap)

	handler := http.Handler(http.HandlerFunc(s.handler))
	if s.manager != nil {
		handler = s.manager.Middleware(handler)
	}
	handler = s.accessLog(handler)
	handler = s.requestID(handler)
	s.httpsrv = &http.Server{
		Handler:  handler,
		ErrorLog: logging.NewZeroLogAdapter(cfg.Logger, zerolog.WarnLevel),
	}

	s.registerQwikRoutes()

	return s
}

// Handle registers an application route. Path parameters follow
// httprouter syntax and are available through
// httprouter.ParamsFromContext.
func (s *Server) Handle(method, path string, handler http.Handler) {
	if strings.HasPrefix(path, internalPrefix) {
		panic(errors.Newf("server: path %s is reserved for framework routes", path))
	}
	s.log.Info().
		Str("method", method).
		Str("path", path).
		Msg("registered route")
	s.app.Handler(method, path, handler)
}

// HandleFunc registers an application route with a handler function.
func (s *Server) HandleFunc(method, path string, handler http.HandlerFunc) {
	s.Handle(method, path, handler)
}

// Snapshot returns the snapshot currently served to clients.
func (s *Server) Snapshot() *env.Snapshot {
	return s.snap.Load()
}

// SetSnapshot swaps the served snapshot. The dev server uses it when
// the env file cascade changes on disk; requests in flight keep the
// snapshot they started with.
func (s *Server) SetSnapshot(snap *env.Snapshot) {
	s.snap.Store(snap)
}

// NotifyReload tells connected dev clients to perform a full reload.
func (s *Server) NotifyReload() {
	if !s.dev {
		return
	}
	s.reload.notify()
}

// ListenAndServe listens on the configured address and serves requests
// until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "server: unable to listen on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves requests on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("mode", s.Snapshot().Mode).
		Msg("listening for incoming HTTP requests")

	serveDone := make(chan struct{})
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
			s.reload.close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.httpsrv.Shutdown(shutdownCtx)
		case <-serveDone:
		}
	}()

	err := s.httpsrv.Serve(ln)
	close(serveDone)
	<-shutdownDone
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// handler dispatches requests between the application router and the
// framework's own routes under /__qwik.
func (s *Server) handler(w http.ResponseWriter, req *http.Request) {
	// We use EscapedPath rather than req.URL.Path so that an encoded
	// forward slash in a parameter is not treated as a segment split.
	path := req.URL.EscapedPath()

	r := s.app
	if strings.HasPrefix(path, internalPrefix+"/") {
		r = s.qwik
		path = path[len(internalPrefix):] // keep leading slash
	}

	h, p, _ := r.Lookup(req.Method, path)
	if h == nil {
		http.NotFound(w, req)
		return
	}
	h(w, req, p)
}

type requestIDKeyType string

const requestIDKey requestIDKeyType = "qwik-request-id"

const requestIDHeader = "X-Request-Id"

// requestID assigns each request an id, echoes it in the response and
// seeds a request-scoped logger carrying it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.log.With().Str("request_id", id).Logger()
		ctx := context.WithValue(req.Context(), requestIDKey, id)
		next.ServeHTTP(w, req.WithContext(logger.WithContext(ctx)))
	})
}

// RequestID reports the id assigned to the request.
func RequestID(req *http.Request) string {
	id, _ := req.Context().Value(requestIDKey).(string)
	return id
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, req)
		zerolog.Ctx(req.Context()).Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", sw.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// statusWriter records the response status for the access log. It
// forwards Hijack so the reload socket can still upgrade.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("server: response writer does not support hijacking")
	}
	return hj.Hijack()
}

func jsonAPI(dev bool) jsoniter.API {
	indentStep := 2
	if !dev {
		indentStep = 0
	}
	return jsoniter.Config{
		EscapeHTML:             false,
		IndentionStep:          indentStep,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
}

