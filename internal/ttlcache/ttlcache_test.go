package ttlcache

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"
)

func TestGetCachesWithinKeepalive(t *testing.T) {
	c := qt.New(t)

	calls := 0
	cache := New(time.Hour, func() (int, error) {
		calls++
		return calls, nil
	})

	for i := 0; i < 3; i++ {
		got, err := cache.Get()
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.Equals, 1)
	}
	c.Assert(calls, qt.Equals, 1)

	cache.Invalidate()
	got, err := cache.Get()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, 2)
}

func TestGetKeepsStaleValueOnError(t *testing.T) {
	c := qt.New(t)

	fail := false
	cache := New(0, func() (string, error) {
		if fail {
			return "", errors.New("fetch failed")
		}
		return "fresh", nil
	})

	got, err := cache.Get()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "fresh")

	fail = true
	got, err = cache.Get()
	c.Assert(err, qt.ErrorMatches, "fetch failed")
	c.Assert(got, qt.Equals, "fresh")
}

func TestSet(t *testing.T) {
	c := qt.New(t)

	cache := New(time.Hour, func() (string, error) {
		return "from-fn", nil
	})
	cache.Set("pinned")

	got, err := cache.Get()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "pinned")
}
