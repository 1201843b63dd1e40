// Package platform detects the deployment platform an application runs
// on and resolves the request origin from the variables the platform
// provides.
package platform

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/octet-stream/qwik/pkg/option"
	"github.com/octet-stream/qwik/runtime/env"
)

// Kind identifies a deployment platform.
type Kind string

const (
	// Node is the generic self-hosted target; it is reported whenever
	// no platform marker variable is present.
	Node            Kind = "node"
	CloudflarePages Kind = "cloudflare-pages"
	Vercel          Kind = "vercel"
	Netlify         Kind = "netlify"
	DenoDeploy      Kind = "deno-deploy"
	CloudRun        Kind = "cloud-run"
)

// Reserved variable names set by deployment platforms or read by the
// server. Defining any of these in an env file almost always indicates
// a mistake, and `qwik env check` flags them.
const (
	// EnvOrigin explicitly sets the full origin (scheme and host) the
	// application is served from, overriding platform detection.
	EnvOrigin = "ORIGIN"

	// EnvPort is the listen port PaaS platforms assign.
	EnvPort = "PORT"

	EnvCFPages      = "CF_PAGES"
	EnvCFPagesURL   = "CF_PAGES_URL"
	EnvVercel       = "VERCEL"
	EnvVercelURL    = "VERCEL_URL" // bare host, no scheme
	EnvNetlify      = "NETLIFY"
	EnvNetlifyURL   = "URL"
	EnvDenoDeployID = "DENO_DEPLOYMENT_ID"
	EnvKService     = "K_SERVICE"
)

var reserved = map[string]bool{
	EnvOrigin:       true,
	EnvPort:         true,
	EnvCFPages:      true,
	EnvCFPagesURL:   true,
	EnvVercel:       true,
	EnvVercelURL:    true,
	EnvNetlify:      true,
	EnvNetlifyURL:   true,
	EnvDenoDeployID: true,
	EnvKService:     true,
}

// Reserved reports whether name is a platform-reserved variable name.
func Reserved(name string) bool {
	return reserved[name]
}

// Info describes the detected platform.
type Info struct {
	Kind Kind

	// DeployURL is the deployment URL the platform advertises, in the
	// raw form the platform provides it. Vercel advertises a bare host.
	// It is None on platforms that advertise no URL.
	DeployURL option.Option[string]
}

// Detect inspects the marker variables each platform sets and reports
// which platform the process runs on. Unknown environments report Node.
func Detect(g env.Getter) Info {
	switch {
	case defined(g, EnvCFPages) || defined(g, EnvCFPagesURL):
		return Info{Kind: CloudflarePages, DeployURL: option.AsOptional(g.Get(EnvCFPagesURL))}
	case defined(g, EnvVercel) || defined(g, EnvVercelURL):
		return Info{Kind: Vercel, DeployURL: option.AsOptional(g.Get(EnvVercelURL))}
	case defined(g, EnvDenoDeployID):
		return Info{Kind: DenoDeploy}
	case defined(g, EnvNetlify):
		return Info{Kind: Netlify, DeployURL: option.AsOptional(g.Get(EnvNetlifyURL))}
	case defined(g, EnvKService):
		return Info{Kind: CloudRun}
	}
	return Info{Kind: Node}
}

func defined(g env.Getter, name string) bool {
	val, ok := g.Lookup(name)
	return ok && val != ""
}

// Origin resolves the origin the application is served from: an
// explicit ORIGIN wins, then the URL advertised by the detected
// platform. It returns "" when neither is available, leaving the
// decision to the caller.
//
// The result is normalized to scheme://host with no trailing slash.
func Origin(g env.Getter) (string, error) {
	if raw := g.Get(EnvOrigin); raw != "" {
		// An explicit ORIGIN must spell out its scheme; guessing one
		// here would hide a misconfiguration until requests arrive.
		if !strings.Contains(raw, "://") {
			return "", errors.Newf("platform: ORIGIN %q must include a scheme, e.g. https://%s", raw, raw)
		}
		origin, err := normalizeOrigin(raw)
		return origin, errors.Wrap(err, "platform: invalid ORIGIN")
	}

	info := Detect(g)
	raw, ok := info.DeployURL.Get()
	if !ok {
		return "", nil
	}
	// Platform URLs may be bare hosts; they are always reachable over
	// https.
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	origin, err := normalizeOrigin(raw)
	return origin, errors.Wrapf(err, "platform: invalid %s deployment URL", info.Kind)
}

func normalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Newf("unsupported scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return "", errors.Newf("missing host in %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ListenAddr reports the address the server should listen on. PaaS
// platforms assign the port through the PORT variable; fallbackPort is
// used when it is not set.
func ListenAddr(g env.Getter, fallbackPort int) (string, error) {
	port := fallbackPort
	if raw, ok := g.Lookup(EnvPort); ok && raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > 65535 {
			return "", errors.Newf("platform: invalid PORT %q", raw)
		}
		port = p
	}
	return fmt.Sprintf(":%d", port), nil
}
