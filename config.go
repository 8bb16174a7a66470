package through

import (
	"log/slog"

	"github.com/imishinist/go-through/stream"
)

// Mode selects how written values are treated.
type Mode int

const (
	// ModeDefault resolves to ModeObject.
	ModeDefault Mode = iota
	// ModeObject treats each written value as one opaque item.
	ModeObject
	// ModeBytes treats written values as byte fragments.
	ModeBytes
)

func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeBytes:
		return "bytes"
	default:
		return "default"
	}
}

// DefaultHighWaterMark is the buffer capacity used when Config.HighWaterMark is not positive.
const DefaultHighWaterMark = 16

// Config configures a unit. Mode and HighWaterMark get defaults,
// every other field is handed to the stream unchanged.
type Config struct {
	Mode Mode

	// HighWaterMark is the back-pressure threshold, in items in object
	// mode and in bytes in byte mode.
	HighWaterMark int

	Name     string
	Encoding string
	Logger   *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Mode == ModeDefault {
		c.Mode = ModeObject
	}
	if c.HighWaterMark <= 0 {
		c.HighWaterMark = DefaultHighWaterMark
	}
	return c
}

func (c Config) options() stream.Options {
	return stream.Options{
		ObjectMode:    c.Mode != ModeBytes,
		HighWaterMark: c.HighWaterMark,
		Name:          c.Name,
		Encoding:      c.Encoding,
		Logger:        c.Logger,
	}
}
