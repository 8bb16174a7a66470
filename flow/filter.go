package flow

import through "github.com/imishinist/go-through"

type FilterPredicate[T any] func(T) bool

// NewFilter returns a stage that forwards the chunks filterPredicate accepts.
func NewFilter[T any](name string, filterPredicate FilterPredicate[T]) *through.DestroyableTransform {
	return newStage(name, "filter", func(chunk any, _ string, next through.Callback) {
		elem, err := cast[T](chunk)
		if err != nil {
			next(err)
			return
		}
		if !filterPredicate(elem) {
			droppedCounter.WithLabelValues(name, "filter").Inc()
			next(nil)
			return
		}
		next(nil, elem)
	}, nil)
}
