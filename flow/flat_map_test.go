package flow_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imishinist/go-through/flow"
)

func TestFlatMap(t *testing.T) {
	t.Run("flat_map", func(t *testing.T) {
		mapper := flow.NewFlatMap[int, int]("flat_map", func(e int) []int {
			return []int{e * 2, -(e * 2)}
		})
		outputs, err := run[int](t, mapper, []int{1, 2, 3, 4, 5})

		assert.NoError(t, err)
		expects := []int{2, -2, 4, -4, 6, -6, 8, -8, 10, -10}
		assert.Equal(t, expects, outputs)
	})

	t.Run("empty results push nothing", func(t *testing.T) {
		mapper := flow.NewFlatMap[string, string]("words", strings.Fields)
		outputs, err := run[string](t, mapper, []string{"a b", "", "  ", "c"})

		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, outputs)
	})
}
