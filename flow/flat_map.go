package flow

import through "github.com/imishinist/go-through"

type FlatMapFunction[T, R any] func(T) []R

// NewFlatMap returns a stage that pushes every element flatMapFunction
// returns, in order. An empty result pushes nothing.
func NewFlatMap[T, R any](name string, flatMapFunction FlatMapFunction[T, R]) *through.DestroyableTransform {
	return newStage(name, "flat_map", func(chunk any, _ string, next through.Callback) {
		elem, err := cast[T](chunk)
		if err != nil {
			next(err)
			return
		}
		results := flatMapFunction(elem)
		if len(results) == 0 {
			droppedCounter.WithLabelValues(name, "flat_map").Inc()
		}
		out := make([]any, len(results))
		for i, r := range results {
			out[i] = r
		}
		next(nil, out...)
	}, nil)
}
