package flow

import through "github.com/imishinist/go-through"

type ReduceFunction[T any] func(T, T) T

// NewReduce returns a stage that folds every chunk into an accumulator with
// reduceFunction and pushes the result when the stage ends. The first chunk
// seeds the accumulator; a stage that saw no chunk pushes nothing.
func NewReduce[T any](name string, reduceFunction ReduceFunction[T]) *through.DestroyableTransform {
	var (
		acc    T
		seeded bool
	)
	transform := func(chunk any, _ string, next through.Callback) {
		elem, err := cast[T](chunk)
		if err != nil {
			next(err)
			return
		}
		if !seeded {
			acc, seeded = elem, true
		} else {
			acc = reduceFunction(acc, elem)
		}
		next(nil)
	}
	flush := func(next through.Callback) {
		if !seeded {
			next(nil)
			return
		}
		next(nil, acc)
	}
	return newStage(name, "reduce", transform, flush)
}
