// Package environ provides a typed view of a process environment.
package environ

import (
	"os"
	"sort"
	"strings"
)

// Environ is a slice of strings representing the environment of a process,
// in the same "KEY=value" format as os.Environ().
type Environ []string

// FromOS returns the environment of the current process.
func FromOS() Environ {
	return Environ(os.Environ())
}

// FromMap converts a key/value map into an Environ, sorted by key.
func FromMap(m map[string]string) Environ {
	e := make(Environ, 0, len(m))
	for k, v := range m {
		e = append(e, k+"="+v)
	}
	sort.Strings(e)
	return e
}

// Get retrieves the value of the environment variable named by the key.
// It returns the value, which will be empty if the variable is not present.
// To distinguish between an empty value and an unset value, use Lookup.
func (e Environ) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Lookup retrieves the value of the environment variable named
// by the key. If the variable is present in the environment the
// value (which may be empty) is returned and the boolean is true.
// Otherwise the returned value will be empty and the boolean will
// be false.
func (e Environ) Lookup(key string) (string, bool) {
	for _, env := range e {
		if len(env) > len(key) && env[len(key)] == '=' && env[:len(key)] == key {
			return env[len(key)+1:], true
		}
	}
	return "", false
}

// Keys reports the variable names present in the environment, sorted.
// Malformed entries without a '=' are skipped.
func (e Environ) Keys() []string {
	keys := make([]string, 0, len(e))
	for _, env := range e {
		if key, _, ok := strings.Cut(env, "="); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ToMap converts the environment into a key/value map.
// For duplicate keys the first entry wins, matching Lookup.
func (e Environ) ToMap() map[string]string {
	m := make(map[string]string, len(e))
	for _, env := range e {
		if key, val, ok := strings.Cut(env, "="); ok {
			if _, exists := m[key]; !exists {
				m[key] = val
			}
		}
	}
	return m
}
