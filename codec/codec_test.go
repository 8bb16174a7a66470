package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/go-through/codec"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "YAML", "msgpack"} {
		f, err := codec.ParseFormat(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f.Marshal)
	}
	_, err := codec.ParseFormat("xml")
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		got, err := collect(t, codec.Encode(codec.JSON), []any{map[string]any{"a": 1}, "x", 2})
		require.NoError(t, err)
		assert.Equal(t, []any{[]byte("{\"a\":1}\n"), []byte("\"x\"\n"), []byte("2\n")}, got)
	})

	t.Run("yaml", func(t *testing.T) {
		got, err := collect(t, codec.Encode(codec.YAML), []any{map[string]any{"a": "b"}})
		require.NoError(t, err)
		assert.Equal(t, []any{[]byte("---\na: b\n")}, got)
	})

	t.Run("unsupported value", func(t *testing.T) {
		_, err := collect(t, codec.Encode(codec.JSON), []any{make(chan int)})
		assert.ErrorContains(t, err, "json encode")
	})
}

func TestDecode(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		got, err := collect(t, codec.Decode(codec.JSON), []any{[]byte(`{"a":"b"}`), `[1,2]`})
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"a": "b"}, []any{1.0, 2.0}}, got)
	})

	t.Run("yaml", func(t *testing.T) {
		got, err := collect(t, codec.Decode(codec.YAML), []any{"name: x"})
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"name": "x"}}, got)
	})

	t.Run("msgpack round trip", func(t *testing.T) {
		encoded, err := collect(t, codec.Encode(codec.Msgpack), []any{map[string]any{"k": "v"}})
		require.NoError(t, err)

		got, err := collect(t, codec.Decode(codec.Msgpack), encoded)
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"k": "v"}}, got)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := collect(t, codec.Decode(codec.JSON), []any{"{"})
		assert.ErrorContains(t, err, "json decode")
	})

	t.Run("unexpected chunk", func(t *testing.T) {
		_, err := collect(t, codec.Decode(codec.JSON), []any{42})
		assert.ErrorContains(t, err, "unexpected chunk int")
	})
}
