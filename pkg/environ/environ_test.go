package environ

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLookup(t *testing.T) {
	c := qt.New(t)

	e := Environ{"FOO=bar", "EMPTY=", "FOO=duplicate", "MALFORMED"}

	tests := []struct {
		Key   string
		Want  string
		Found bool
	}{
		{"FOO", "bar", true},
		{"EMPTY", "", true},
		{"MISSING", "", false},
		{"FO", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		got, ok := e.Lookup(test.Key)
		c.Assert(ok, qt.Equals, test.Found, qt.Commentf("key %q", test.Key))
		c.Assert(got, qt.Equals, test.Want, qt.Commentf("key %q", test.Key))
	}

	c.Assert(e.Get("FOO"), qt.Equals, "bar")
	c.Assert(e.Get("MISSING"), qt.Equals, "")
}

func TestKeysAndToMap(t *testing.T) {
	c := qt.New(t)

	e := Environ{"B=2", "A=1", "A=shadowed", "BROKEN"}

	c.Assert(e.Keys(), qt.DeepEquals, []string{"A", "A", "B"})
	c.Assert(e.ToMap(), qt.DeepEquals, map[string]string{"A": "1", "B": "2"})
}

func TestFromMapRoundTrip(t *testing.T) {
	c := qt.New(t)

	e := FromMap(map[string]string{"ZED": "z", "ALPHA": "a"})
	c.Assert(e, qt.DeepEquals, Environ{"ALPHA=a", "ZED=z"})
	c.Assert(e.Get("ALPHA"), qt.Equals, "a")
}
