// Package option provides an Option type for values that may be absent.
package option

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type Option[T any] struct {
	Value   T
	Present bool
}

// Some returns an Option with the given value and present set to true.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Present: true}
}

// None returns an Option with no value set.
func None[T any]() Option[T] {
	return Option[T]{Present: false}
}

// AsOptional returns an Option where a zero value T is considered None
// and any other value is considered Some.
func AsOptional[T comparable](v T) Option[T] {
	var zero T
	if v == zero {
		return None[T]()
	}
	return Some(v)
}

func (o Option[T]) IsPresent() bool {
	return o.Present
}

func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Present
}

func (o Option[T]) GetOrDefault(def T) T {
	if o.Present {
		return o.Value
	}
	return def
}

func (o Option[T]) MustGet() (rtn T) {
	if o.Present {
		return o.Value
	}
	panic(errors.Newf("Option value is not set: %T", rtn))
}

func (o Option[T]) String() string {
	if o.Present {
		return fmt.Sprintf("%v", o.Value)
	}
	return "None"
}

// Map transforms a present value with f and leaves None untouched.
func Map[T, R any](option Option[T], f func(T) R) Option[R] {
	if option.Present {
		return Some(f(option.Value))
	}
	return None[R]()
}
