// Package envfile loads the .env file cascade for a project directory.
//
// A project can carry up to four files per mode, loaded in order with
// later files overriding earlier ones:
//
//	.env                base values, committed
//	.env.local          local overrides, gitignored
//	.env.<mode>         mode-specific values, committed
//	.env.<mode>.local   mode-specific local overrides, gitignored
//
// Values loaded here never override the process environment: callers
// layer the merged set underneath it (see runtime/env.Manager).
package envfile

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/octet-stream/qwik/pkg/fns"
	"github.com/octet-stream/qwik/runtime/env"
)

// Name is the base env file name the cascade is built from.
const Name = ".env"

var modeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidMode reports whether mode can be used as an env file suffix.
// Modes name files on disk, so anything resembling a path is rejected.
func ValidMode(mode string) bool {
	return modeRe.MatchString(mode) && mode != ".." && filepath.Base(mode) == mode
}

// Files returns the cascade file names for the given mode, in load
// order. The list is deduplicated so a mode named "local" does not
// load the same file twice.
func Files(mode string) []string {
	names := []string{
		Name,
		Name + ".local",
		Name + "." + mode,
		Name + "." + mode + ".local",
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Set is the merged result of loading a cascade.
type Set struct {
	// Mode the cascade was loaded for.
	Mode string
	// Dir the files were read from.
	Dir string
	// Vars holds the merged values.
	Vars map[string]string
	// Sources maps each variable to the cascade file that supplied its
	// winning value.
	Sources map[string]string
	// Warnings collects entries the load skipped.
	Warnings []Warning
}

// Warning describes a cascade entry the load skipped, such as one
// whose name is not a valid environment variable name.
type Warning struct {
	// Name of the skipped entry.
	Name string
	// Source is the cascade file that defined it.
	Source string
	// Message describes why it was skipped.
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: skipping %q: %s", w.Source, w.Name, w.Message)
}

// Load reads the cascade for mode from dir. Files that do not exist
// are skipped; files that fail to parse abort the load.
//
// Values follow dotenv conventions: quoting, inline comments on
// unquoted values, and $NAME references. A reference resolves against
// assignments made earlier in the same file and expands to the empty
// string otherwise; \$ keeps the dollar literal, and single-quoted
// values are taken verbatim.
func Load(dir, mode string) (*Set, error) {
	if mode == "" {
		mode = env.ModeDevelopment
	}
	if !ValidMode(mode) {
		return nil, errors.Newf("envfile: invalid mode %q", mode)
	}

	set := &Set{
		Mode:    mode,
		Dir:     dir,
		Vars:    make(map[string]string),
		Sources: make(map[string]string),
	}

	for _, name := range Files(mode) {
		k := koanf.New(".")
		err := k.Load(file.Provider(filepath.Join(dir, name)), dotenv.Parser())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "envfile: unable to parse %s", name)
		}
		for _, key := range k.Keys() {
			if !env.ValidName(key) {
				set.Warnings = append(set.Warnings, Warning{
					Name:    key,
					Source:  name,
					Message: "is not a valid environment variable name",
				})
				continue
			}
			set.Vars[key] = k.String(key)
			set.Sources[key] = name
		}
	}

	return set, nil
}

// Parse reads a single env file held in memory. No cascade merging is
// applied; it exists to validate content before it is written back to
// disk.
func Parse(data []byte) (map[string]string, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), dotenv.Parser()); err != nil {
		return nil, errors.Wrap(err, "envfile: unable to parse content")
	}
	out := make(map[string]string)
	for _, key := range k.Keys() {
		out[key] = k.String(key)
	}
	return out, nil
}

// Lookup reports the merged value for name.
func (s *Set) Lookup(name string) (string, bool) {
	val, ok := s.Vars[name]
	return val, ok
}

// Get is like Lookup but returns the empty string for absent names.
func (s *Set) Get(name string) string {
	return s.Vars[name]
}

// Names returns the variable names in the set, sorted.
func (s *Set) Names() []string {
	names := fns.MapKeys(s.Vars)
	sort.Strings(names)
	return names
}

// Partition splits the set into build-time public variables and
// server-side variables.
func (s *Set) Partition() (public, server map[string]string) {
	public = make(map[string]string)
	server = make(map[string]string)
	for name, val := range s.Vars {
		if env.IsPublic(name) {
			public[name] = val
		} else {
			server[name] = val
		}
	}
	return public, server
}
