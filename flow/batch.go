package flow

import through "github.com/imishinist/go-through"

// NewBatch returns a stage that groups chunks into slices of maxBatchSize.
// The last, possibly shorter, batch is pushed when the stage ends.
func NewBatch[T any](name string, maxBatchSize uint) *through.DestroyableTransform {
	if maxBatchSize == 0 {
		maxBatchSize = 1
	}

	batch := make([]T, 0, maxBatchSize)
	transform := func(chunk any, _ string, next through.Callback) {
		elem, err := cast[T](chunk)
		if err != nil {
			next(err)
			return
		}
		batch = append(batch, elem)
		if len(batch) < int(maxBatchSize) {
			next(nil)
			return
		}
		full := batch
		batch = make([]T, 0, maxBatchSize)
		next(nil, full)
	}
	flush := func(next through.Callback) {
		if len(batch) == 0 {
			next(nil)
			return
		}
		next(nil, batch)
	}
	return newStage(name, "batch", transform, flush)
}
