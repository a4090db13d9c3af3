package log

import (
	"io"
	"os"
)

// WriterOutput writes formatted entries to an io.Writer.
type WriterOutput struct {
	w io.Writer
}

// NewWriterOutput returns an output writing to w.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

// NewConsoleOutput returns an output writing to stderr.
func NewConsoleOutput() *WriterOutput { return &WriterOutput{w: os.Stderr} }

func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	_, err := o.w.Write(formatted)
	return err
}

// Close is a no-op; the underlying writer is owned by the caller.
func (o *WriterOutput) Close() error { return nil }

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
