package envfile

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/octet-stream/qwik/runtime/env"
)

var bareValueRe = regexp.MustCompile(`^[A-Za-z0-9_./:@+,-]*$`)

// Quote renders value so the dotenv parser reads it back unchanged.
// Values the format cannot represent, such as a value ending in a
// backslash, return an error.
func Quote(value string) (string, error) {
	if bareValueRe.MatchString(value) {
		return value, nil
	}
	// The parser treats a quote preceded by a backslash as escaped, so
	// a trailing backslash would swallow the closing quote.
	if strings.HasSuffix(value, `\`) {
		return "", errors.Newf("envfile: cannot quote a value ending in a backslash")
	}

	// Single quotes keep the content verbatim: no escapes and no $NAME
	// references.
	if !strings.ContainsAny(value, "'\n\r") {
		return "'" + value + "'", nil
	}

	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		`$`, `\$`,
	)
	return `"` + r.Replace(value) + `"`, nil
}

// Upsert updates the NAME=value line for name in the content of an env
// file, appending one when the file does not define the variable yet.
// Comments and unrelated lines are preserved. The updated content is
// parsed before it is returned, so a failed quoting round trip never
// reaches disk.
func Upsert(content []byte, name, value string) ([]byte, error) {
	if !env.ValidName(name) {
		return nil, errors.Newf("envfile: invalid variable name %q", name)
	}
	quoted, err := Quote(value)
	if err != nil {
		return nil, err
	}
	entry := name + "=" + quoted

	lineRe := regexp.MustCompile(`^\s*(?:export\s+)?` + regexp.QuoteMeta(name) + `\s*=`)

	lines := strings.Split(string(content), "\n")
	found := false
	for i, line := range lines {
		if lineRe.MatchString(line) {
			lines[i] = entry
			found = true
		}
	}
	if !found {
		// Append, keeping a single trailing newline.
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, entry)
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	parsed, err := Parse([]byte(out))
	if err != nil {
		return nil, err
	}
	if got := parsed[name]; got != value {
		return nil, errors.Newf("envfile: value for %s does not survive quoting: %q reads back as %q", name, value, got)
	}
	return []byte(out), nil
}
