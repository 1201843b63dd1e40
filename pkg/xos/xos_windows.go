//go:build windows
// +build windows

// Package xos provides cross-platform helper functions.
package xos

import (
	"os"

	"github.com/cockroachdb/errors"
)

// WriteFile writes data to filename with the given permissions.
//
// Atomic replacement via rename is not reliable on windows, so this
// falls back to a plain write.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return errors.WithStack(os.WriteFile(filename, data, perm))
}
