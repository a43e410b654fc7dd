package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink is the shared, append-only stream log. Every worker writes through
// the same Sink; whole entries are written under one lock so they never
// interleave.
type Sink struct {
	mu      sync.Mutex
	out     io.Writer
	console io.Writer
	closer  io.Closer
}

// OpenSink appends to the file at path, creating it if needed. A nil
// console disables echoing.
func OpenSink(path string, console io.Writer) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open stream log: %w", err)
	}
	return &Sink{out: f, console: console, closer: f}, nil
}

// NewSink writes entries to out and, when not nil, to console.
func NewSink(out, console io.Writer) *Sink {
	return &Sink{out: out, console: console}
}

func (s *Sink) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.out != nil {
		if _, err := s.out.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	if s.console != nil {
		if _, err := s.console.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases the log file. Entries flushed afterwards only reach the console.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.out = nil
	s.closer = nil
	return err
}

// Entry collects the lines of one request and writes them with a single Flush.
type Entry struct {
	sink *Sink
	buf  *bytes.Buffer
}

// NewEntry starts an entry stamped with the server time.
func (s *Sink) NewEntry(now time.Time) *Entry {
	e := &Entry{sink: s, buf: getEntryBuffer()}
	e.Addf("<Server Time> %s:", now.Format("2006-01-02 15:04:05.000"))
	return e
}

// Addf appends one line.
func (e *Entry) Addf(format string, args ...any) {
	fmt.Fprintf(e.buf, format, args...)
	e.buf.WriteString("\r\n")
}

// Flush writes the buffered lines and clears the entry. Flushing an empty
// entry writes nothing.
func (e *Entry) Flush() error {
	if e.buf.Len() == 0 {
		return nil
	}
	err := e.sink.write(e.buf.Bytes())
	e.buf.Reset()
	return err
}

// Release returns the entry's buffer to the pool. The entry must not be
// used afterwards.
func (e *Entry) Release() {
	putEntryBuffer(e.buf)
	e.buf = nil
}
