// Package codec provides units that split, encode and decode chunks.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	through "github.com/imishinist/go-through"
)

// Format is a serialization format for single values.
type Format struct {
	Name      string
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error

	// Frame wraps one encoded value so that consecutive values can be
	// concatenated into a stream. Nil leaves the encoding as is.
	Frame func(data []byte) []byte
}

var (
	JSON = Format{
		Name:      "json",
		Marshal:   json.Marshal,
		Unmarshal: json.Unmarshal,
		Frame:     func(data []byte) []byte { return append(data, '\n') },
	}

	YAML = Format{
		Name:      "yaml",
		Marshal:   yaml.Marshal,
		Unmarshal: func(data []byte, v any) error { return yaml.Unmarshal(data, v) },
		Frame:     func(data []byte) []byte { return append([]byte("---\n"), data...) },
	}

	// Msgpack values are self-delimiting.
	Msgpack = Format{
		Name:      "msgpack",
		Marshal:   msgpack.Marshal,
		Unmarshal: msgpack.Unmarshal,
	}
)

var formats = map[string]Format{
	JSON.Name:    JSON,
	YAML.Name:    YAML,
	Msgpack.Name: Msgpack,
}

// ParseFormat looks a format up by name.
func ParseFormat(name string) (Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return Format{}, fmt.Errorf("codec: unknown format %q", name)
	}
	return f, nil
}

// Encode returns a unit that marshals every chunk with f and pushes the
// framed bytes.
func Encode(f Format) *through.DestroyableTransform {
	return through.WithConfig(through.Config{Name: "encode-" + f.Name}, func(chunk any, _ string, next through.Callback) {
		data, err := f.Marshal(chunk)
		if err != nil {
			next(fmt.Errorf("codec: %s encode: %w", f.Name, err))
			return
		}
		if f.Frame != nil {
			data = f.Frame(data)
		}
		next(nil, data)
	}, nil)
}

// Decode returns a unit that unmarshals every chunk, a byte slice or string
// holding exactly one value, with f.
func Decode(f Format) *through.DestroyableTransform {
	return through.WithConfig(through.Config{Name: "decode-" + f.Name}, func(chunk any, _ string, next through.Callback) {
		var data []byte
		switch c := chunk.(type) {
		case []byte:
			data = c
		case string:
			data = []byte(c)
		default:
			next(fmt.Errorf("codec: %s decode: unexpected chunk %T", f.Name, chunk))
			return
		}

		var v any
		if err := f.Unmarshal(data, &v); err != nil {
			next(fmt.Errorf("codec: %s decode: %w", f.Name, err))
			return
		}
		next(nil, v)
	}, nil)
}
