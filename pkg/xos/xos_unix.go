//go:build !windows
// +build !windows

// Package xos provides cross-platform helper functions.
package xos

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
)

// WriteFile writes data to filename with the given permissions.
//
// The write goes through a temporary file and a rename, so readers and
// file watchers never observe a partially written file.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return errors.WithStack(renameio.WriteFile(filename, data, perm))
}
