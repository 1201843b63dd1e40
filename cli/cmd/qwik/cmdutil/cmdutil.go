// Package cmdutil holds helpers shared by the qwik CLI commands.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/octet-stream/qwik/pkg/qwikfile"
)

// MaybeProjectRoot determines the project root by looking for the
// qwik.json file, initially in the current directory and then
// recursively in parent directories up to the filesystem root.
//
// It reports the absolute path to the project root, and the relative
// path from the project root to the working directory.
func MaybeProjectRoot() (root, relPath string, err error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	return qwikfile.FindRoot(dir)
}

// ProjectRoot is like MaybeProjectRoot but instead of returning an
// error it prints it to stderr and exits.
func ProjectRoot() (root, relPath string) {
	root, relPath, err := MaybeProjectRoot()
	if err != nil {
		Fatal(err)
	}
	return root, relPath
}

// EnvDir reports the directory the env file cascade lives in for the
// project rooted at root.
func EnvDir(root string, f *qwikfile.File) string {
	return filepath.Join(root, f.EnvDir)
}

func Fatal(args ...any) {
	red := color.New(color.FgRed)
	_, _ = red.Fprint(os.Stderr, "error: ")
	_, _ = red.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Sprintf(format, args...))
}
