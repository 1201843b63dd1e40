// Package qwikfile reads qwik.json files.
package qwikfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Name is the name of the qwik project file.
// It is expected to be located in the root of the project
// (which is usually the Git repository root).
const Name = "qwik.json"

// Defaults applied by Parse when the file leaves a field unset.
const (
	DefaultBase = "/"
	DefaultMode = "development"
	DefaultHost = "localhost"
	DefaultPort = 5173
)

// File is a parsed qwik.json file. The file may contain comments and
// trailing commas.
type File struct {
	// Name is the project name. It is only used for display purposes.
	Name string `json:"name,omitempty"`

	// Base is the public base path the application is served under.
	// It must start with "/". If empty it defaults to "/".
	Base string `json:"base,omitempty"`

	// EnvDir is the directory the .env file cascade is loaded from,
	// relative to the project root. If empty it defaults to the root.
	EnvDir string `json:"envDir,omitempty"`

	// DefaultMode is the mode used when none is given on the command
	// line. If empty it defaults to "development".
	DefaultMode string `json:"defaultMode,omitempty"`

	// Origin explicitly sets the origin the application is served from,
	// taking precedence over platform detection.
	Origin string `json:"origin,omitempty"`

	// Server configures the dev server.
	Server Server `json:"server,omitempty"`
}

// Server holds the dev server settings.
type Server struct {
	// Host the dev server binds to. If empty it defaults to "localhost".
	Host string `json:"host,omitempty"`

	// Port the dev server binds to. If zero it defaults to 5173.
	Port int `json:"port,omitempty"`
}

// Parse parses the project file data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	data, err := hujson.Standardize(data)
	if err == nil {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("qwikfile.Parse: %v", err)
	}

	if f.Base == "" {
		f.Base = DefaultBase
	}
	if f.EnvDir == "" {
		f.EnvDir = "."
	}
	if f.DefaultMode == "" {
		f.DefaultMode = DefaultMode
	}
	if f.Server.Host == "" {
		f.Server.Host = DefaultHost
	}
	if f.Server.Port == 0 {
		f.Server.Port = DefaultPort
	}

	if f.Base[0] != '/' {
		return nil, fmt.Errorf("qwikfile.Parse: base must start with %q, got %q", "/", f.Base)
	}
	if f.Server.Port < 1 || f.Server.Port > 65535 {
		return nil, fmt.Errorf("qwikfile.Parse: invalid server port %d", f.Server.Port)
	}

	return &f, nil
}

// ParseFile parses the project file located at path.
// A missing file yields the defaults, so projects without a qwik.json
// work out of the box.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Parse([]byte("{}"))
	} else if err != nil {
		return nil, fmt.Errorf("qwikfile.ParseFile: %w", err)
	}
	return Parse(data)
}

// Base reports the public base path for the project located at root.
func Base(root string) (string, error) {
	f, err := ParseFile(filepath.Join(root, Name))
	if err != nil {
		return "", err
	}
	return f.Base, nil
}

// EnvDir reports the directory the env file cascade is loaded from for
// the project located at root, joined onto root.
func EnvDir(root string) (string, error) {
	f, err := ParseFile(filepath.Join(root, Name))
	if err != nil {
		return "", err
	}
	return filepath.Join(root, f.EnvDir), nil
}

var (
	ErrNotFound = errors.New("no qwik.json found in directory (or any of the parent directories)")
	ErrIsDir    = errors.New("qwik.json is a directory, not a file")
)

// FindRoot determines the project root by looking for the qwik.json
// file, initially in dir and then recursively in parent directories up
// to the filesystem root.
//
// It reports the absolute path to the project root, and the relative
// path from the root to dir.
func FindRoot(dir string) (root, relPath string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	rel := "."
	for {
		path := filepath.Join(dir, Name)
		fi, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			dir2 := filepath.Dir(dir)
			if dir2 == dir {
				return "", "", ErrNotFound
			}
			rel = filepath.Join(filepath.Base(dir), rel)
			dir = dir2
			continue
		} else if err != nil {
			return "", "", err
		} else if fi.IsDir() {
			return "", "", ErrIsDir
		} else {
			return dir, rel, nil
		}
	}
}
