// Package through builds duplex transform units from plain functions.
//
//	double := through.Through(func(chunk any, _ string, next through.Callback) {
//		next(nil, chunk.(int)*2)
//	})
//
// A unit is written to with Write and End, read from Out, and torn down at
// most once with Destroy.
package through

import (
	"reflect"

	"github.com/imishinist/go-through/stream"
)

type (
	// Callback completes a transform or flush step.
	Callback = stream.Callback
	// TransformFunc is called once per written chunk.
	TransformFunc = stream.TransformFunc
	// FlushFunc is called once after the last chunk.
	FlushFunc = stream.FlushFunc
)

// TeardownFunc is called when a unit is destroyed. It receives the destroy
// error and must call done once its cleanup finished; a non-nil error passed
// to done is emitted before close.
type TeardownFunc func(err error, done func(error))

// Params is the resolved form of a constructor call.
type Params struct {
	Config    Config
	Transform TransformFunc
	Flush     FlushFunc
	Teardown  TeardownFunc
}

// Through creates a unit from up to four arguments:
//
//	Through(config, transform, flush, teardown)
//	Through(transform, flush, teardown)
//
// Arguments of an unexpected type are replaced by their defaults: an empty
// config, the identity transform, no flush and no teardown.
func Through(args ...any) *DestroyableTransform {
	return New(resolve(args))
}

// Func creates a unit with the default config.
func Func(transform TransformFunc, flush FlushFunc) *DestroyableTransform {
	return New(Params{Transform: transform, Flush: flush})
}

// WithConfig creates a unit with cfg merged over the defaults.
func WithConfig(cfg Config, transform TransformFunc, flush FlushFunc) *DestroyableTransform {
	return New(Params{Config: cfg, Transform: transform, Flush: flush})
}

func resolve(args []any) Params {
	slot := func(i int) any {
		if i < len(args) {
			return args[i]
		}
		return nil
	}

	config, transform, flush, teardown := slot(0), slot(1), slot(2), slot(3)
	if isFunc(config) {
		config, transform, flush, teardown = nil, slot(0), slot(1), slot(2)
	}

	return Params{
		Config:    asConfig(config),
		Transform: asTransform(transform),
		Flush:     asFlush(flush),
		Teardown:  asTeardown(teardown),
	}
}

func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func asConfig(v any) Config {
	switch c := v.(type) {
	case Config:
		return c
	case *Config:
		if c != nil {
			return *c
		}
	}
	return Config{}
}

func asTransform(v any) TransformFunc {
	switch fn := v.(type) {
	case TransformFunc:
		return fn
	case func(any, string, Callback):
		return fn
	case func(any, string, func(error, ...any)):
		if fn != nil {
			return func(chunk any, enc string, next Callback) { fn(chunk, enc, next) }
		}
	}
	return nil
}

func asFlush(v any) FlushFunc {
	switch fn := v.(type) {
	case FlushFunc:
		return fn
	case func(Callback):
		return fn
	case func(func(error, ...any)):
		if fn != nil {
			return func(next Callback) { fn(next) }
		}
	}
	return nil
}

func asTeardown(v any) TeardownFunc {
	switch fn := v.(type) {
	case TeardownFunc:
		return fn
	case func(error, func(error)):
		return fn
	}
	return nil
}

func identity(chunk any, _ string, next Callback) {
	next(nil, chunk)
}
