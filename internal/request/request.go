package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxRequestLineSize bounds how much of a slow or hostile peer we buffer.
const maxRequestLineSize = 8192

var ErrRequestLineTooLarge = errors.New("request line too large")

// Request is the parsed first line of a connection. Nothing else is read.
type Request struct {
	Method             string
	Target             string // raw, including any query string
	HTTPVersion        string
	HTTPVersionPresent bool
}

// Path returns the target without its query string.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.Target, "?")
	return path
}

// RequestFromReader reads a single request line from reader and parses it.
// The raw line is returned without its terminator, even when parsing fails,
// so it can be logged. A peer that closes before sending anything yields ErrEmpty.
func RequestFromReader(reader io.Reader) (*Request, string, error) {
	br := bufio.NewReaderSize(reader, maxRequestLineSize)

	line, err := br.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return nil, "", newParseError(ErrRequestLineTooLarge, "")
	case errors.Is(err, io.EOF):
		if len(line) == 0 {
			return nil, "", newParseError(ErrEmpty, "")
		}
	case err != nil:
		return nil, "", fmt.Errorf("read request line: %w", err)
	}

	raw := strings.TrimRight(string(line), "\r\n")
	req, err := ParseRequestLine(raw)
	return req, raw, err
}
