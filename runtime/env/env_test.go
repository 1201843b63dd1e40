package env

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestClassify(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		Name   string
		Public bool
	}{
		{"PUBLIC_API_URL", true},
		{"PUBLIC_", true}, // bare prefix still classifies as public; the checker flags it
		{"PUBLIC", false},
		{"public_api_url", false},
		{"Public_Api", false},
		{"DB_PASSWORD", false},
		{"", false},
		{"XPUBLIC_Y", false},
	}

	for _, test := range tests {
		c.Run(test.Name, func(c *qt.C) {
			c.Assert(IsPublic(test.Name), qt.Equals, test.Public)
			want := Server
			if test.Public {
				want = Public
			}
			c.Assert(Classify(test.Name), qt.Equals, want)
		})
	}
}

func TestValidName(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		Name  string
		Valid bool
	}{
		{"FOO", true},
		{"_PRIVATE", true},
		{"PUBLIC_API_URL", true},
		{"lower_case", true},
		{"WITH1DIGIT", true},
		{"1LEADING_DIGIT", false},
		{"WITH-DASH", false},
		{"WITH SPACE", false},
		{"WITH.DOT", false},
		{"", false},
	}

	for _, test := range tests {
		c.Assert(ValidName(test.Name), qt.Equals, test.Valid, qt.Commentf("name %q", test.Name))
	}
}

func TestIsBuiltin(t *testing.T) {
	c := qt.New(t)

	for _, name := range []string{"BASE_URL", "MODE", "DEV", "PROD", "SSR"} {
		c.Assert(IsBuiltin(name), qt.IsTrue, qt.Commentf("name %q", name))
	}
	c.Assert(IsBuiltin("PUBLIC_MODE"), qt.IsFalse)
	c.Assert(IsBuiltin("mode"), qt.IsFalse)
}
