package stream

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// EncodingBuffer is the encoding hint passed to transforms in byte mode.
const EncodingBuffer = "buffer"

// admit validates a chunk for the mode and returns its writable weight.
func (t *Transform) admit(chunk any) (any, uint, error) {
	if chunk == nil {
		return nil, 0, ErrInvalidChunk
	}
	if t.opts.ObjectMode {
		return chunk, 1, nil
	}

	var b []byte
	switch c := chunk.(type) {
	case []byte:
		b = c
	case string:
		b = []byte(c)
	default:
		return nil, 0, fmt.Errorf("%w: %T in byte mode", ErrInvalidChunk, chunk)
	}
	return b, max(uint(len(b)), 1), nil
}

func (t *Transform) encodingHint() string {
	if t.opts.ObjectMode {
		return ""
	}
	return EncodingBuffer
}

// render applies the readable encoding to byte output.
func (t *Transform) render(v any) any {
	b, ok := v.([]byte)
	if !ok || t.opts.ObjectMode {
		return v
	}
	switch strings.ToLower(t.opts.Encoding) {
	case "utf8", "utf-8":
		return string(b)
	case "hex":
		return hex.EncodeToString(b)
	case "base64":
		return base64.StdEncoding.EncodeToString(b)
	default:
		return v
	}
}
