package env

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewSnapshotFiltersServerVars(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("production", "/app/", map[string]string{
		"PUBLIC_API_URL": "https://api.example.com",
		"PUBLIC_FLAG":    "on",
		"DB_PASSWORD":    "hunter2",
		"SESSION_SECRET": "sssh",
	})

	c.Assert(snap.Public, qt.DeepEquals, map[string]string{
		"PUBLIC_API_URL": "https://api.example.com",
		"PUBLIC_FLAG":    "on",
	})
	for name := range snap.Public {
		c.Assert(IsPublic(name), qt.IsTrue, qt.Commentf("server-side var %q leaked into snapshot", name))
	}
	c.Assert(snap.Mode, qt.Equals, "production")
	c.Assert(snap.Dev, qt.IsFalse)
	c.Assert(snap.Prod, qt.IsTrue)
	c.Assert(snap.SSR, qt.IsTrue)
}

func TestNewSnapshotDefaults(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("", "", nil)
	c.Assert(snap.Mode, qt.Equals, ModeDevelopment)
	c.Assert(snap.BaseURL, qt.Equals, "/")
	c.Assert(snap.Dev, qt.IsTrue)
	c.Assert(snap.Prod, qt.IsFalse)
	c.Assert(snap.SSR, qt.IsTrue)
	c.Assert(snap.Public, qt.HasLen, 0)
}

func TestSnapshotLookup(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("development", "/base/", map[string]string{
		"PUBLIC_NAME": "qwik",
		"API_SECRET":  "dropped",
	})

	tests := []struct {
		Name  string
		Want  string
		Found bool
	}{
		{"BASE_URL", "/base/", true},
		{"MODE", "development", true},
		{"DEV", "true", true},
		{"PROD", "false", true},
		{"SSR", "true", true},
		{"PUBLIC_NAME", "qwik", true},
		{"API_SECRET", "", false}, // server-side vars never survive a snapshot
		{"PUBLIC_MISSING", "", false},
	}

	for _, test := range tests {
		c.Run(test.Name, func(c *qt.C) {
			got, ok := snap.Lookup(test.Name)
			c.Assert(ok, qt.Equals, test.Found)
			c.Assert(got, qt.Equals, test.Want)
			c.Assert(snap.Get(test.Name), qt.Equals, test.Want)
		})
	}

	c.Assert(snap.Names(), qt.DeepEquals, []string{"PUBLIC_NAME"})
}

func TestForClient(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("production", "/", map[string]string{"PUBLIC_X": "1"})
	client := snap.ForClient()

	c.Assert(client.SSR, qt.IsFalse)
	c.Assert(client.Get("SSR"), qt.Equals, "false")
	c.Assert(snap.SSR, qt.IsTrue, qt.Commentf("ForClient must not mutate the receiver"))

	// The clone owns its map.
	client.Public["PUBLIC_X"] = "changed"
	c.Assert(snap.Public["PUBLIC_X"], qt.Equals, "1")
}

func TestEncodeParseRoundTrip(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("production", "/shop/", map[string]string{
		"PUBLIC_API_URL": "https://api.example.com",
		"PUBLIC_EMPTY":   "",
	})

	parsed, err := ParseSnapshot(snap.Encode())
	c.Assert(err, qt.IsNil)
	c.Assert(parsed, qt.DeepEquals, snap)
}

func TestParseSnapshotRawURLEncoding(t *testing.T) {
	c := qt.New(t)

	snap := NewSnapshot("development", "/", map[string]string{"PUBLIC_A": "b"})
	data, err := json.Marshal(snap)
	c.Assert(err, qt.IsNil)

	parsed, err := ParseSnapshot(base64.RawURLEncoding.EncodeToString(data))
	c.Assert(err, qt.IsNil)
	c.Assert(parsed.Public, qt.DeepEquals, snap.Public)
}

func TestParseSnapshotRejectsServerVars(t *testing.T) {
	c := qt.New(t)

	data, err := json.Marshal(map[string]any{
		"base_url": "/",
		"mode":     "production",
		"public": map[string]string{
			"PUBLIC_OK":   "1",
			"DB_PASSWORD": "hunter2",
		},
	})
	c.Assert(err, qt.IsNil)

	_, err = ParseSnapshot(base64.StdEncoding.EncodeToString(data))
	c.Assert(err, qt.ErrorMatches, `.*DB_PASSWORD.*`)
}

func TestParseSnapshotRecomputesModeFlags(t *testing.T) {
	c := qt.New(t)

	// Dev/Prod are derived from Mode, not trusted from the payload.
	data, err := json.Marshal(map[string]any{
		"base_url": "/",
		"mode":     "production",
		"dev":      true,
		"prod":     false,
	})
	c.Assert(err, qt.IsNil)

	parsed, err := ParseSnapshot(base64.StdEncoding.EncodeToString(data))
	c.Assert(err, qt.IsNil)
	c.Assert(parsed.Dev, qt.IsFalse)
	c.Assert(parsed.Prod, qt.IsTrue)
}

func TestParseSnapshotErrors(t *testing.T) {
	c := qt.New(t)

	_, err := ParseSnapshot("")
	c.Assert(err, qt.IsNotNil)
	_, err = ParseSnapshot("!!! not base64 !!!")
	c.Assert(err, qt.IsNotNil)
	_, err = ParseSnapshot(base64.StdEncoding.EncodeToString([]byte("not json")))
	c.Assert(err, qt.IsNotNil)
}

func TestClientScriptEscaping(t *testing.T) {
	c := qt.New(t)

	payload := "</script><script>alert(1)</script>"
	snap := NewSnapshot("development", "/", map[string]string{
		"PUBLIC_HTML": payload,
	})

	script := snap.ClientScript()
	c.Assert(script, qt.Contains, "window.__QWIK_ENV__ = ")
	c.Assert(strings.Contains(script, "</script>"), qt.IsFalse,
		qt.Commentf("script payload must not be able to close its own tag"))

	// The escaped payload still decodes to the original value.
	body := strings.TrimSuffix(strings.TrimPrefix(script, "window.__QWIK_ENV__ = "), ";\n")
	var decoded Snapshot
	c.Assert(json.Unmarshal([]byte(body), &decoded), qt.IsNil)
	c.Assert(decoded.Public["PUBLIC_HTML"], qt.Equals, payload)
}
