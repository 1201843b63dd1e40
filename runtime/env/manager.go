package env

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/octet-stream/qwik/pkg/environ"
	"github.com/octet-stream/qwik/pkg/fns"
)

// Manager resolves server-side variables at request time. Lookups go to
// programmatic overrides first, then the process environment, then the
// values loaded from the .env cascade. Nothing a Manager resolves is
// ever written into a build-time Snapshot except through Snapshot(),
// which applies the public-only filter.
type Manager struct {
	log zerolog.Logger
	dev bool

	// lookupEnv and envKeys read the process environment. They default
	// to the live process env so mutations between requests are
	// observable, and are swapped for a fixed environ in tests and
	// when the platform hands us an explicit environment.
	lookupEnv func(string) (string, bool)
	envKeys   func() []string

	mu        sync.RWMutex
	fileVars  map[string]string
	overrides map[string]string

	// track missing server-side lookups for local development
	missingMu  sync.Mutex
	missing    []string
	seen       map[string]bool
	logMissing sync.Once
	warnDelay  time.Duration
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Log zerolog.Logger

	// Mode the application runs in; missing-variable tracking is only
	// active outside production.
	Mode string

	// FileVars holds the values loaded from the .env file cascade.
	FileVars map[string]string

	// Environ pins the manager to a fixed environment instead of the
	// live process environment.
	Environ environ.Environ
}

// NewManager returns a Manager for the given configuration.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		log:       cfg.Log,
		dev:       cfg.Mode != ModeProduction,
		fileVars:  make(map[string]string, len(cfg.FileVars)),
		overrides: make(map[string]string),
		seen:      make(map[string]bool),
		warnDelay: 1 * time.Second,
	}
	for k, v := range cfg.FileVars {
		m.fileVars[k] = v
	}

	if cfg.Environ != nil {
		fixed := cfg.Environ
		m.lookupEnv = fixed.Lookup
		m.envKeys = fixed.Keys
	} else {
		m.lookupEnv = os.LookupEnv
		m.envKeys = func() []string { return environ.FromOS().Keys() }
	}
	return m
}

// Lookup resolves a variable at call time. The boolean reports whether
// the variable is defined by any source.
func (m *Manager) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	m.mu.RLock()
	if val, ok := m.overrides[name]; ok {
		m.mu.RUnlock()
		return val, true
	}
	m.mu.RUnlock()

	if val, ok := m.lookupEnv(name); ok {
		return val, true
	}

	m.mu.RLock()
	val, ok := m.fileVars[name]
	m.mu.RUnlock()
	if ok {
		return val, true
	}

	m.trackMissing(name)
	return "", false
}

// Get is like Lookup but returns the empty string for absent variables.
// A missing variable is never an error: the framework contract is that
// an undefined variable reads as undefined, in every environment.
func (m *Manager) Get(name string) string {
	val, _ := m.Lookup(name)
	return val
}

// Keys reports every variable name the manager can currently resolve,
// sorted and deduplicated.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	names := make(map[string]bool, len(m.fileVars)+len(m.overrides))
	for name := range m.fileVars {
		names[name] = true
	}
	for name := range m.overrides {
		names[name] = true
	}
	m.mu.RUnlock()

	for _, name := range m.envKeys() {
		names[name] = true
	}

	keys := fns.MapKeys(names)
	sort.Strings(keys)
	return keys
}

// Snapshot builds the build-time snapshot from the manager's current
// merged view. Process values win over file values, and only public
// names survive the construction.
func (m *Manager) Snapshot(mode, baseURL string) *Snapshot {
	merged := make(map[string]string)

	m.mu.RLock()
	for name, val := range m.fileVars {
		merged[name] = val
	}
	m.mu.RUnlock()

	for _, name := range m.envKeys() {
		if val, ok := m.lookupEnv(name); ok {
			merged[name] = val
		}
	}

	m.mu.RLock()
	for name, val := range m.overrides {
		merged[name] = val
	}
	m.mu.RUnlock()

	return NewSnapshot(mode, baseURL, merged)
}

// ReplaceFileVars swaps the .env cascade layer, used when the cascade
// is reloaded during development.
func (m *Manager) ReplaceFileVars(vars map[string]string) {
	next := make(map[string]string, len(vars))
	for k, v := range vars {
		next[k] = v
	}
	m.mu.Lock()
	m.fileVars = next
	m.mu.Unlock()
}

// SetOverride pins a variable to a value until ClearOverride. Overrides
// take precedence over every other source; they exist for tests and
// tooling.
func (m *Manager) SetOverride(name, val string) {
	m.mu.Lock()
	m.overrides[name] = val
	m.mu.Unlock()
}

// ClearOverride removes an override set with SetOverride.
func (m *Manager) ClearOverride(name string) {
	m.mu.Lock()
	delete(m.overrides, name)
	m.mu.Unlock()
}

// trackMissing records a failed server-side lookup during development.
// The names are logged in a single batched warning shortly after the
// first miss, so a burst of lookups during a request produces one line.
func (m *Manager) trackMissing(name string) {
	if !m.dev || IsBuiltin(name) {
		return
	}

	m.missingMu.Lock()
	if !m.seen[name] {
		m.seen[name] = true
		m.missing = append(m.missing, name)
	}
	m.missingMu.Unlock()

	m.logMissing.Do(func() {
		go func() {
			time.Sleep(m.warnDelay)
			m.missingMu.Lock()
			names := make([]string, len(m.missing))
			copy(names, m.missing)
			m.missingMu.Unlock()
			sort.Strings(names)
			m.log.Warn().
				Str("variables", strings.Join(names, ", ")).
				Msg("environment variables not defined; lookups return empty values")
		}()
	})
}
