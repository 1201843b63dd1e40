package env

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"

	"github.com/octet-stream/qwik/pkg/environ"
)

func TestFromContext(t *testing.T) {
	c := qt.New(t)

	_, err := FromContext(context.Background())
	c.Assert(errors.Is(err, ErrNoRequestEnv), qt.IsTrue)

	m := NewManager(ManagerConfig{
		Mode:    ModeDevelopment,
		Environ: environ.FromMap(map[string]string{"DB_URL": "postgres://localhost"}),
	})
	ctx := NewContext(context.Background(), m)

	getter, err := FromContext(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(getter.Get("DB_URL"), qt.Equals, "postgres://localhost")
}

func TestMustFromContextPanics(t *testing.T) {
	c := qt.New(t)

	c.Assert(func() { MustFromContext(context.Background()) }, qt.PanicMatches,
		`.*no environment attached to context.*`)
}

func TestMiddleware(t *testing.T) {
	c := qt.New(t)

	m := NewManager(ManagerConfig{
		Mode:     ModeDevelopment,
		FileVars: map[string]string{"SESSION_SECRET": "sssh"},
		Environ:  environ.Environ{},
	})

	var sawSecret string
	var reqErr error
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var getter Getter
		getter, reqErr = FromRequest(r)
		if reqErr == nil {
			sawSecret = getter.Get("SESSION_SECRET")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	c.Assert(reqErr, qt.IsNil)
	c.Assert(sawSecret, qt.Equals, "sssh")
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
}
