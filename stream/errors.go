package stream

import "errors"

var (
	// ErrDestroyed is returned when writing to or ending a destroyed stream.
	ErrDestroyed = errors.New("stream: destroyed")

	// ErrWriteAfterEnd is returned when writing after End was called.
	ErrWriteAfterEnd = errors.New("stream: write after end")

	// ErrMultipleCallback is the destroy error when a transform or flush
	// function calls its completion callback more than once.
	ErrMultipleCallback = errors.New("stream: callback called multiple times")

	// ErrInvalidChunk is returned for nil chunks, and for chunks that are
	// neither []byte nor string in byte mode.
	ErrInvalidChunk = errors.New("stream: invalid chunk")
)
