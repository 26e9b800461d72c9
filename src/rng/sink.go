package rng

import (
	"fmt"
	"io"
)

// Sink receives each completed byte.
type Sink interface {
	Emit(b byte) error
}

// WriterSink writes raw bytes to w with no framing. Pass os.Stdout directly;
// it is unbuffered, so the stream reaches the consumer byte by byte.
type WriterSink struct {
	w   io.Writer
	buf [1]byte
}

func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

func (s *WriterSink) Emit(b byte) error {
	s.buf[0] = b
	n, err := s.w.Write(s.buf[:])
	if err != nil {
		return fmt.Errorf("write output byte: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("write output byte: %w", io.ErrShortWrite)
	}
	return nil
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(b byte) error

func (f SinkFunc) Emit(b byte) error { return f(b) }
