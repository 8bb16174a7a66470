package flow

import through "github.com/imishinist/go-through"

// NewPassThrough returns a stage that forwards every chunk unchanged.
func NewPassThrough(name string) *through.DestroyableTransform {
	return newStage(name, "pass_through", nil, nil)
}
