package env

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/octet-stream/qwik/pkg/fns"
)

// Snapshot is the build-time environment: the public variables plus the
// framework constants, resolved once and embedded verbatim into the
// built artifacts. A Snapshot never carries server-side variables.
//
// Snapshots are immutable after construction and safe for concurrent
// use.
type Snapshot struct {
	// BaseURL is the public base path the application is served from.
	BaseURL string `json:"base_url"`

	// Mode is the mode the application was built in.
	Mode string `json:"mode"`

	// Dev and Prod report the build mode. Dev is always !Prod.
	Dev  bool `json:"dev"`
	Prod bool `json:"prod"`

	// SSR is true in the server artifact and false in the client view
	// of the same snapshot.
	SSR bool `json:"ssr"`

	// Public holds the PUBLIC_-prefixed variables.
	Public map[string]string `json:"public,omitempty"`
}

// NewSnapshot builds a server-side snapshot for the given mode and base
// URL. Only public names from vars are retained; server-side names are
// dropped, never stored. An empty mode defaults to development and an
// empty baseURL to "/".
func NewSnapshot(mode, baseURL string, vars map[string]string) *Snapshot {
	if mode == "" {
		mode = ModeDevelopment
	}
	if baseURL == "" {
		baseURL = "/"
	}

	public := make(map[string]string)
	for name, val := range vars {
		if IsPublic(name) {
			public[name] = val
		}
	}

	prod := mode == ModeProduction
	return &Snapshot{
		BaseURL: baseURL,
		Mode:    mode,
		Dev:     !prod,
		Prod:    prod,
		SSR:     true,
		Public:  public,
	}
}

// Lookup resolves a public variable or a built-in constant name.
// Server-side names are never resolvable through a snapshot.
func (s *Snapshot) Lookup(name string) (string, bool) {
	switch name {
	case BuiltinBaseURL:
		return s.BaseURL, true
	case BuiltinMode:
		return s.Mode, true
	case BuiltinDev:
		return strconv.FormatBool(s.Dev), true
	case BuiltinProd:
		return strconv.FormatBool(s.Prod), true
	case BuiltinSSR:
		return strconv.FormatBool(s.SSR), true
	}
	val, ok := s.Public[name]
	return val, ok
}

// Get is like Lookup but returns the empty string for absent names.
func (s *Snapshot) Get(name string) string {
	val, _ := s.Lookup(name)
	return val
}

// Names reports the public variable names in the snapshot, unsorted.
func (s *Snapshot) Names() []string {
	return fns.MapKeys(s.Public)
}

// ForClient returns the client-artifact view of the snapshot: the same
// build-time data with SSR false. The public map is copied so the two
// views stay independent.
func (s *Snapshot) ForClient() *Snapshot {
	c := *s
	c.SSR = false
	c.Public = make(map[string]string, len(s.Public))
	for name, val := range s.Public {
		c.Public[name] = val
	}
	return &c
}

// Encode serializes the snapshot to base64(JSON), the form embedded
// into binaries via linker flags.
func (s *Snapshot) Encode() string {
	data, _ := json.Marshal(s)
	return base64.StdEncoding.EncodeToString(data)
}

// ParseSnapshot decodes a snapshot produced by Encode. Dev and Prod are
// recomputed from Mode so the two can never disagree, whatever the
// encoded payload claimed.
func ParseSnapshot(s string) (*Snapshot, error) {
	if s == "" {
		return nil, errors.New("env: empty snapshot")
	}

	// StdEncoding is what Encode emits; accept RawURLEncoding too so
	// hand-assembled linker flags keep working.
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, errors.Wrap(err, "env: decode snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, "env: parse snapshot")
	}

	if snap.Mode == "" {
		snap.Mode = ModeDevelopment
	}
	if snap.BaseURL == "" {
		snap.BaseURL = "/"
	}
	snap.Prod = snap.Mode == ModeProduction
	snap.Dev = !snap.Prod

	for name := range snap.Public {
		if !IsPublic(name) {
			return nil, errors.Newf("env: snapshot carries server-side variable %q", name)
		}
	}

	return &snap, nil
}
