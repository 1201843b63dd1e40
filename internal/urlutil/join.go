// Package urlutil provides small URL helpers.
package urlutil

import "strings"

// Join joins a base URL and a relative path, ensuring exactly one
// slash between them. A relPath that is already a full URL is returned
// as-is, guarding against accidental double-joining.
func Join(base, relPath string) string {
	if strings.HasPrefix(relPath, "http://") || strings.HasPrefix(relPath, "https://") {
		return relPath
	}
	// An empty base would otherwise turn relPath into a root-relative
	// path.
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(relPath, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(relPath, "/")
}
