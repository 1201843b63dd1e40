package version

import (
	"runtime/debug"
	"strings"
)

// Version is the version of the qwik binary.
// It is set using `go build -ldflags "-X github.com/octet-stream/qwik/internal/version.Version=v1.2.3"`.
var Version string

// Channel tells us which ReleaseChannel this build is from.
var Channel ReleaseChannel

type ReleaseChannel string

const (
	GA       ReleaseChannel = "ga"      // A tagged release in semver: v1.10.0
	DevBuild ReleaseChannel = "devel"   // A development build: devel-0140ab0f78fd10d52673a961e900993b64b7b9e3
	unknown  ReleaseChannel = "unknown" // An unknown release stream (not exported as it should be an error case)
)

func init() {
	// If version is already set via a compiler link flag, then we don't need to do anything
	if Version == "" {
		// Otherwise, we want to read the information from this built binary
		Version = "devel"

		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		// Add the commit info
		vcsVersion := ""
		vcsModified := ""
		for _, p := range info.Settings {
			switch p.Key {
			case "vcs.revision":
				vcsVersion = p.Value
			case "vcs.modified":
				if p.Value == "true" {
					vcsModified = "-modified"
				}
			}
		}
		if vcsVersion != "" {
			Version += "-" + vcsVersion + vcsModified
		}
	}
	Channel = channelFor(Version)
}

func channelFor(version string) ReleaseChannel {
	switch {
	case strings.HasPrefix(version, "v"):
		return GA
	case strings.HasPrefix(version, "devel-") || version == "devel":
		return DevBuild
	default:
		return unknown
	}
}
