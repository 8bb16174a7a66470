package flow

import through "github.com/imishinist/go-through"

type MapFunction[T, R any] func(T) R

// NewMap returns a stage that pushes mapFunction(chunk) for every chunk.
func NewMap[T, R any](name string, mapFunction MapFunction[T, R]) *through.DestroyableTransform {
	return newStage(name, "map", func(chunk any, _ string, next through.Callback) {
		elem, err := cast[T](chunk)
		if err != nil {
			next(err)
			return
		}
		next(nil, mapFunction(elem))
	}, nil)
}
