// Package envcheck inspects a loaded env file cascade for the mistakes
// that bite at deploy time: secrets under PUBLIC_ names, redefined
// framework constants, and names no shell can export.
package envcheck

import (
	"fmt"
	"sort"

	"github.com/octet-stream/qwik/pkg/envfile"
	"github.com/octet-stream/qwik/pkg/platform"
	"github.com/octet-stream/qwik/pkg/secretscan"
	"github.com/octet-stream/qwik/runtime/env"
)

// Severity classifies a finding. Errors fail `qwik env check`;
// warnings are printed but do not affect the exit code.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Finding is a single problem found in the cascade.
type Finding struct {
	Severity Severity
	// Name of the variable the finding is about.
	Name string
	// Source is the cascade file that supplied the winning value.
	Source string
	// Message describes the problem.
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s (%s): %s", f.Severity, f.Name, f.Source, f.Message)
}

// Check runs every check against the merged cascade and reports the
// findings sorted by variable name. Entries the load skipped count as
// errors: a variable that cannot be served is a deploy-time failure.
func Check(set *envfile.Set) []Finding {
	var findings []Finding
	add := func(sev Severity, name, msg string) {
		findings = append(findings, Finding{
			Severity: sev,
			Name:     name,
			Source:   set.Sources[name],
			Message:  msg,
		})
	}

	for _, w := range set.Warnings {
		findings = append(findings, Finding{
			Severity: Error,
			Name:     w.Name,
			Source:   w.Source,
			Message:  w.Message,
		})
	}

	for name, value := range set.Vars {
		if name == env.PublicPrefix {
			add(Error, name, "has no name after the PUBLIC_ prefix")
			continue
		}

		if env.IsBuiltin(name) {
			add(Error, name, "is a framework constant; the value in the env file is ignored")
		}
		if platform.Reserved(name) {
			add(Error, name, "is reserved by the deployment platform and must be set there, not in env files")
		}

		if !env.IsPublic(name) {
			continue
		}

		// Everything below only applies to build-time variables, which
		// end up inlined into client-delivered artifacts.
		if value == "" {
			add(Warning, name, "is empty; it will be inlined into client artifacts as an empty string")
			continue
		}
		if reason, found := secretscan.Check(name, value); found {
			add(Error, name, fmt.Sprintf("%s; PUBLIC_ variables are inlined into client artifacts", reason))
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Name != findings[j].Name {
			return findings[i].Name < findings[j].Name
		}
		return findings[i].Message < findings[j].Message
	})
	return findings
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == Error {
			return true
		}
	}
	return false
}
