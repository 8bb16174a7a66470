package extension

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/flow"
	"github.com/imishinist/go-through/stream"
)

// WriterSink writes chunks to an io.Writer. Byte slices and strings are
// written as they are, other values in their default format.
type WriterSink struct {
	w       io.Writer
	newline bool

	mu    sync.Mutex
	ended bool
}

var _ through.Sink = (*WriterSink)(nil)

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// NewStdoutSink returns a sink printing one chunk per line to stdout.
func NewStdoutSink() *WriterSink {
	return &WriterSink{w: os.Stdout, newline: true}
}

func (s *WriterSink) Write(ctx context.Context, chunk any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return stream.ErrWriteAfterEnd
	}

	var err error
	switch v := chunk.(type) {
	case []byte:
		_, err = s.w.Write(v)
	case string:
		_, err = io.WriteString(s.w, v)
	default:
		_, err = fmt.Fprint(s.w, v)
	}
	if err == nil && s.newline {
		_, err = io.WriteString(s.w, "\n")
	}
	return err
}

func (s *WriterSink) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
	return nil
}

// IgnoreSink discards everything written to it.
type IgnoreSink struct {
	mu    sync.Mutex
	count int
}

var _ through.Sink = (*IgnoreSink)(nil)

func NewIgnoreSink() *IgnoreSink {
	return &IgnoreSink{}
}

func (s *IgnoreSink) Write(context.Context, any) error {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

func (s *IgnoreSink) End() error {
	return nil
}

// Count returns the number of discarded chunks.
func (s *IgnoreSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

// ReaderSource emits the content of an io.Reader as []byte chunks.
type ReaderSource struct {
	out chan any

	mu  sync.Mutex
	err error
}

var _ through.Source = (*ReaderSource)(nil)

// NewReaderSource reads r in the background until EOF, a read error or ctx
// is done.
func NewReaderSource(ctx context.Context, r io.Reader) *ReaderSource {
	s := &ReaderSource{out: make(chan any)}
	go s.read(ctx, r)
	return s
}

func (s *ReaderSource) read(ctx context.Context, r io.Reader) {
	defer close(s.out)

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case <-ctx.Done():
				return
			case s.out <- bytes.Clone(buf[:n]):
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			s.mu.Lock()
			s.err = fmt.Errorf("extension: read: %w", err)
			s.mu.Unlock()
			return
		}
	}
}

// Err returns the read error that stopped the source, if any.
func (s *ReaderSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *ReaderSource) Out() <-chan any {
	return s.out
}

func (s *ReaderSource) Via(operator through.Flow) through.Flow {
	flow.DoStream(s, operator)
	return operator
}
