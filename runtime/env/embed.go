package env

import (
	"encoding/json"
	"fmt"

	"go4.org/syncutil"

	"github.com/octet-stream/qwik/pkg/environ"
)

// embedded is set at build time using
//
//	go build -ldflags "$(qwik env snapshot --format ldflags)"
//
// and holds the encoded build-time snapshot.
var embedded string

var (
	embeddedOnce syncutil.Once
	embeddedSnap *Snapshot
)

// Embedded returns the snapshot embedded into this binary at build
// time. Binaries built without an embedded snapshot get a development
// snapshot derived from the public variables of the process
// environment, so `go run` keeps working during development.
func Embedded() (*Snapshot, error) {
	err := embeddedOnce.Do(func() error {
		if embedded == "" {
			embeddedSnap = NewSnapshot(ModeDevelopment, "/", environ.FromOS().ToMap())
			return nil
		}
		snap, err := ParseSnapshot(embedded)
		if err != nil {
			return err
		}
		embeddedSnap = snap
		return nil
	})
	return embeddedSnap, err
}

// ClientScript renders the snapshot as a JavaScript snippet assigning
// the snapshot to window.__QWIK_ENV__, for inclusion in server-rendered
// HTML. The JSON encoder escapes "<", ">" and "&", so the payload
// cannot break out of a <script> element.
//
// Callers exposing the script to browsers should render
// s.ForClient().ClientScript() so the client view carries SSR=false.
func (s *Snapshot) ClientScript() string {
	data, err := json.Marshal(s)
	if err != nil {
		// A Snapshot is strings and bools; this cannot happen.
		panic(fmt.Sprintf("env: marshal snapshot: %v", err))
	}
	return fmt.Sprintf("window.__QWIK_ENV__ = %s;\n", data)
}
