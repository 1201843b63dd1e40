package env

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"

	"github.com/octet-stream/qwik/pkg/environ"
)

// lockedBuffer makes a bytes.Buffer safe for the manager's background
// warning goroutine to write to.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestManagerPrecedence(t *testing.T) {
	c := qt.New(t)

	m := NewManager(ManagerConfig{
		Mode:     ModeDevelopment,
		FileVars: map[string]string{"FOO": "from-file", "BAR": "from-file"},
		Environ:  environ.FromMap(map[string]string{"FOO": "from-env"}),
	})

	// Process env beats the .env cascade.
	c.Assert(m.Get("FOO"), qt.Equals, "from-env")
	// File values fill in what the process env lacks.
	c.Assert(m.Get("BAR"), qt.Equals, "from-file")

	// Overrides beat everything, and clearing restores the layers below.
	m.SetOverride("FOO", "pinned")
	c.Assert(m.Get("FOO"), qt.Equals, "pinned")
	m.ClearOverride("FOO")
	c.Assert(m.Get("FOO"), qt.Equals, "from-env")

	val, ok := m.Lookup("MISSING")
	c.Assert(ok, qt.IsFalse)
	c.Assert(val, qt.Equals, "")
	c.Assert(m.Get(""), qt.Equals, "")
}

func TestManagerKeys(t *testing.T) {
	c := qt.New(t)

	m := NewManager(ManagerConfig{
		Mode:     ModeDevelopment,
		FileVars: map[string]string{"B_FILE": "1", "SHARED": "file"},
		Environ:  environ.FromMap(map[string]string{"A_ENV": "1", "SHARED": "env"}),
	})
	m.SetOverride("C_OVERRIDE", "1")

	c.Assert(m.Keys(), qt.DeepEquals, []string{"A_ENV", "B_FILE", "C_OVERRIDE", "SHARED"})
}

func TestManagerSnapshot(t *testing.T) {
	c := qt.New(t)

	m := NewManager(ManagerConfig{
		Mode: ModeProduction,
		FileVars: map[string]string{
			"PUBLIC_FROM_FILE": "file",
			"PUBLIC_SHARED":    "file",
			"SERVER_SECRET":    "sssh",
		},
		Environ: environ.FromMap(map[string]string{
			"PUBLIC_FROM_ENV": "env",
			"PUBLIC_SHARED":   "env",
		}),
	})
	m.SetOverride("PUBLIC_PINNED", "override")

	snap := m.Snapshot("production", "/")
	c.Assert(snap.Public, qt.DeepEquals, map[string]string{
		"PUBLIC_FROM_FILE": "file",
		"PUBLIC_FROM_ENV":  "env",
		"PUBLIC_SHARED":    "env",
		"PUBLIC_PINNED":    "override",
	})
}

func TestManagerReplaceFileVars(t *testing.T) {
	c := qt.New(t)

	m := NewManager(ManagerConfig{
		Mode:     ModeDevelopment,
		FileVars: map[string]string{"GREETING": "hello"},
		Environ:  environ.Environ{},
	})
	c.Assert(m.Get("GREETING"), qt.Equals, "hello")

	m.ReplaceFileVars(map[string]string{"GREETING": "hei"})
	c.Assert(m.Get("GREETING"), qt.Equals, "hei")

	m.ReplaceFileVars(nil)
	c.Assert(m.Get("GREETING"), qt.Equals, "")
}

func TestManagerLiveProcessEnv(t *testing.T) {
	c := qt.New(t)

	// No fixed Environ: the manager reads the live process environment,
	// so changes between lookups are observed.
	m := NewManager(ManagerConfig{Mode: ModeProduction})

	t.Setenv("QWIK_TEST_LIVE_VAR", "first")
	c.Assert(m.Get("QWIK_TEST_LIVE_VAR"), qt.Equals, "first")

	t.Setenv("QWIK_TEST_LIVE_VAR", "second")
	c.Assert(m.Get("QWIK_TEST_LIVE_VAR"), qt.Equals, "second")

	os.Unsetenv("QWIK_TEST_LIVE_VAR")
	_, ok := m.Lookup("QWIK_TEST_LIVE_VAR")
	c.Assert(ok, qt.IsFalse)
}

func TestManagerMissingWarning(t *testing.T) {
	c := qt.New(t)

	var buf lockedBuffer
	m := NewManager(ManagerConfig{
		Log:     zerolog.New(&buf),
		Mode:    ModeDevelopment,
		Environ: environ.Environ{},
	})
	m.warnDelay = 10 * time.Millisecond

	m.Get("MISSING_B")
	m.Get("MISSING_A")
	m.Get("MISSING_B") // repeated misses are deduplicated
	m.Get("MODE")      // builtins are never reported

	deadline := time.Now().Add(2 * time.Second)
	for buf.String() == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	out := buf.String()
	c.Assert(out, qt.Contains, "environment variables not defined")
	c.Assert(out, qt.Contains, "MISSING_A, MISSING_B")
	c.Assert(strings.Contains(out, "MODE"), qt.IsFalse)
	c.Assert(strings.Count(out, "environment variables not defined"), qt.Equals, 1)
}

func TestManagerMissingWarningDisabledInProduction(t *testing.T) {
	c := qt.New(t)

	var buf lockedBuffer
	m := NewManager(ManagerConfig{
		Log:     zerolog.New(&buf),
		Mode:    ModeProduction,
		Environ: environ.Environ{},
	})
	m.warnDelay = 10 * time.Millisecond

	m.Get("MISSING_IN_PROD")
	time.Sleep(50 * time.Millisecond)

	c.Assert(buf.String(), qt.Equals, "")
}
