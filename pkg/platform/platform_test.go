package platform

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/octet-stream/qwik/pkg/environ"
	"github.com/octet-stream/qwik/pkg/option"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		Name      string
		Env       map[string]string
		Kind      Kind
		DeployURL option.Option[string]
	}{
		{
			Name: "nothing set",
			Env:  map[string]string{},
			Kind: Node,
		},
		{
			Name:      "cloudflare pages",
			Env:       map[string]string{"CF_PAGES": "1", "CF_PAGES_URL": "https://abc123.pages.dev"},
			Kind:      CloudflarePages,
			DeployURL: option.Some("https://abc123.pages.dev"),
		},
		{
			Name:      "vercel",
			Env:       map[string]string{"VERCEL": "1", "VERCEL_URL": "my-site.vercel.app"},
			Kind:      Vercel,
			DeployURL: option.Some("my-site.vercel.app"),
		},
		{
			Name:      "vercel url only",
			Env:       map[string]string{"VERCEL_URL": "my-site.vercel.app"},
			Kind:      Vercel,
			DeployURL: option.Some("my-site.vercel.app"),
		},
		{
			Name:      "netlify",
			Env:       map[string]string{"NETLIFY": "true", "URL": "https://my-site.netlify.app"},
			Kind:      Netlify,
			DeployURL: option.Some("https://my-site.netlify.app"),
		},
		{
			Name: "cloudflare pages without URL",
			Env:  map[string]string{"CF_PAGES": "1"},
			Kind: CloudflarePages,
		},
		{
			Name: "deno deploy",
			Env:  map[string]string{"DENO_DEPLOYMENT_ID": "d2f0"},
			Kind: DenoDeploy,
		},
		{
			Name: "cloud run",
			Env:  map[string]string{"K_SERVICE": "my-service"},
			Kind: CloudRun,
		},
		{
			Name: "bare URL is not a netlify marker",
			Env:  map[string]string{"URL": "https://example.com"},
			Kind: Node,
		},
		{
			Name: "empty markers are ignored",
			Env:  map[string]string{"CF_PAGES": "", "VERCEL": ""},
			Kind: Node,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			c := qt.New(t)
			info := Detect(environ.FromMap(test.Env))
			c.Assert(info.Kind, qt.Equals, test.Kind)
			c.Assert(info.DeployURL, qt.Equals, test.DeployURL)
		})
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		Name   string
		Env    map[string]string
		Origin string
	}{
		{
			Name:   "nothing configured",
			Env:    map[string]string{},
			Origin: "",
		},
		{
			Name:   "explicit origin",
			Env:    map[string]string{"ORIGIN": "https://example.com"},
			Origin: "https://example.com",
		},
		{
			Name:   "explicit origin trailing slash stripped",
			Env:    map[string]string{"ORIGIN": "https://example.com/"},
			Origin: "https://example.com",
		},
		{
			Name:   "explicit origin keeps port",
			Env:    map[string]string{"ORIGIN": "http://localhost:8080"},
			Origin: "http://localhost:8080",
		},
		{
			Name:   "origin wins over platform",
			Env:    map[string]string{"ORIGIN": "https://example.com", "CF_PAGES_URL": "https://abc.pages.dev"},
			Origin: "https://example.com",
		},
		{
			Name:   "cloudflare deployment URL",
			Env:    map[string]string{"CF_PAGES": "1", "CF_PAGES_URL": "https://abc.pages.dev"},
			Origin: "https://abc.pages.dev",
		},
		{
			Name:   "vercel bare host gets https",
			Env:    map[string]string{"VERCEL_URL": "my-site.vercel.app"},
			Origin: "https://my-site.vercel.app",
		},
		{
			Name:   "netlify URL",
			Env:    map[string]string{"NETLIFY": "true", "URL": "https://my-site.netlify.app"},
			Origin: "https://my-site.netlify.app",
		},
		{
			Name:   "platform without URL",
			Env:    map[string]string{"K_SERVICE": "svc"},
			Origin: "",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			c := qt.New(t)
			origin, err := Origin(environ.FromMap(test.Env))
			c.Assert(err, qt.IsNil)
			c.Assert(origin, qt.Equals, test.Origin)
		})
	}
}

func TestOriginErrors(t *testing.T) {
	c := qt.New(t)

	_, err := Origin(environ.FromMap(map[string]string{"ORIGIN": "example.com"}))
	c.Assert(err, qt.ErrorMatches, `platform: ORIGIN "example.com" must include a scheme.*`)

	_, err = Origin(environ.FromMap(map[string]string{"ORIGIN": "ftp://example.com"}))
	c.Assert(err, qt.ErrorMatches, `platform: invalid ORIGIN.*unsupported scheme.*`)

	_, err = Origin(environ.FromMap(map[string]string{"ORIGIN": "https://"}))
	c.Assert(err, qt.ErrorMatches, `platform: invalid ORIGIN.*missing host.*`)
}

func TestListenAddr(t *testing.T) {
	c := qt.New(t)

	addr, err := ListenAddr(environ.FromMap(nil), 5173)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, ":5173")

	addr, err = ListenAddr(environ.FromMap(map[string]string{"PORT": "8080"}), 5173)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, ":8080")

	_, err = ListenAddr(environ.FromMap(map[string]string{"PORT": "nope"}), 5173)
	c.Assert(err, qt.ErrorMatches, `platform: invalid PORT.*`)

	_, err = ListenAddr(environ.FromMap(map[string]string{"PORT": "70000"}), 5173)
	c.Assert(err, qt.ErrorMatches, `platform: invalid PORT.*`)
}

func TestReserved(t *testing.T) {
	c := qt.New(t)

	c.Assert(Reserved("ORIGIN"), qt.IsTrue)
	c.Assert(Reserved("CF_PAGES_URL"), qt.IsTrue)
	c.Assert(Reserved("PORT"), qt.IsTrue)
	c.Assert(Reserved("PUBLIC_API_URL"), qt.IsFalse)
	c.Assert(Reserved("HOME"), qt.IsFalse)
}
