package response

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/webserver/internal/headers"
)

const crlf = "\r\n"

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes responses to an io.Writer in wire order: status line, headers,
// blank line, body.
type Writer struct {
	w          io.Writer
	state      writerState
	statusCode StatusCode
	written    int64
	hadError   bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: stateStart,
	}
}

func (w *Writer) write(s string) error {
	n, err := io.WriteString(w.w, s)
	w.written += int64(n)
	if err != nil {
		w.hadError = true
	}
	return err
}

// WriteStatusLine writes a standard HTTP/1.1 status line.
func (w *Writer) WriteStatusLine(code StatusCode) error {
	return w.writeStatus(code, StatusLine(code))
}

func (w *Writer) writeStatus(code StatusCode, line string) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}
	if err := w.write(line + crlf); err != nil {
		return err
	}
	w.statusCode = code
	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes all headers followed by the blank separator line.
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	for _, f := range h.All() {
		if err := w.write(f.String() + crlf); err != nil {
			return err
		}
	}

	// Write empty line to end headers
	if err := w.write(crlf); err != nil {
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the complete response body
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	if len(data) > 0 {
		n, err := w.w.Write(data)
		w.written += int64(n)
		if err != nil {
			w.hadError = true
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

// WriteResponse writes r in full. A response without headers is a bare
// status line and nothing else follows it.
func (w *Writer) WriteResponse(r *Response) error {
	if err := w.writeStatus(r.StatusCode, r.StatusLine); err != nil {
		return err
	}
	if r.Headers == nil {
		w.state = stateBodyWritten
		return nil
	}
	if err := w.WriteHeaders(r.Headers); err != nil {
		return err
	}
	return w.WriteBody(r.Body)
}

func (w *Writer) HadError() bool {
	return w.hadError
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}

// BytesWritten counts every byte handed to the underlying writer.
func (w *Writer) BytesWritten() int64 {
	return w.written
}
