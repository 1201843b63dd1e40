package env

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Getter is the read-only view of the server-side environment that
// request-handling code receives. It is satisfied by *Manager and by
// environ.Environ.
type Getter interface {
	// Get returns the value of the named variable, or the empty string
	// if it is not defined.
	Get(name string) string

	// Lookup returns the value of the named variable and whether it is
	// defined.
	Lookup(name string) (string, bool)
}

type envContextKeyType string

const envContextKey envContextKeyType = "qwik-env"

// ErrNoRequestEnv is reported when server-side variables are read
// outside of request-handling code.
var ErrNoRequestEnv = errors.New("env: no environment attached to context; server-side variables are only available while handling a request")

// NewContext returns a context carrying the given environment accessor.
func NewContext(ctx context.Context, g Getter) context.Context {
	return context.WithValue(ctx, envContextKey, g)
}

// FromContext returns the environment accessor attached to ctx.
// Server-side variables are reachable only from request-handling code;
// contexts without an accessor report ErrNoRequestEnv.
func FromContext(ctx context.Context) (Getter, error) {
	g, ok := ctx.Value(envContextKey).(Getter)
	if !ok {
		return nil, ErrNoRequestEnv
	}
	return g, nil
}

// MustFromContext is like FromContext but panics when no accessor is
// attached. Use it in handlers that only ever run behind Middleware.
func MustFromContext(ctx context.Context) Getter {
	g, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return g
}

// FromRequest returns the environment accessor attached to the request.
func FromRequest(r *http.Request) (Getter, error) {
	return FromContext(r.Context())
}

// Middleware attaches the manager to every request's context so
// handlers can resolve server-side variables with FromRequest.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), m)))
	})
}
