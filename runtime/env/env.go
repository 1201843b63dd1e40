// Package env implements the environment-variable surface of a Qwik
// application: the PUBLIC_ classification rule, the build-time snapshot
// that is embedded into server and client artifacts, and the
// request-scoped accessor for server-side variables.
package env

import "regexp"

// PublicPrefix marks variables that are resolved once during the build
// and embedded into both server and client artifacts. Every other
// variable is server-side: resolved at request time and never shipped
// to the client.
const PublicPrefix = "PUBLIC_"

// Kind classifies a variable name.
type Kind string

const (
	// Public variables are build-time: inlined into all artifacts,
	// including those delivered to clients.
	Public Kind = "public"

	// Server variables are resolved only when server-side
	// request-handling code reads them at runtime.
	Server Kind = "server"
)

// Built-in variable names provided by the framework itself. They are
// fields of the build-time snapshot, not entries of the environment,
// and cannot be redefined through env files.
const (
	BuiltinBaseURL = "BASE_URL"
	BuiltinMode    = "MODE"
	BuiltinDev     = "DEV"
	BuiltinProd    = "PROD"
	BuiltinSSR     = "SSR"
)

// ModeDevelopment and ModeProduction are the mode names the tooling
// defaults to. Modes are otherwise free-form.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// IsPublic reports whether the variable name is classified as
// build-time/public. The check is an exact, case-sensitive prefix
// match: "public_url" is a server variable.
func IsPublic(name string) bool {
	return len(name) >= len(PublicPrefix) && name[:len(PublicPrefix)] == PublicPrefix
}

// Classify reports the kind of the named variable.
func Classify(name string) Kind {
	if IsPublic(name) {
		return Public
	}
	return Server
}

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name is a well-formed environment variable
// name: a letter or underscore followed by letters, digits or
// underscores.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

// IsBuiltin reports whether name is one of the framework-provided
// constant names.
func IsBuiltin(name string) bool {
	switch name {
	case BuiltinBaseURL, BuiltinMode, BuiltinDev, BuiltinProd, BuiltinSSR:
		return true
	}
	return false
}
