package request

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty     = errors.New("empty request")
	ErrNotGet    = errors.New("only GET is supported")
	ErrNotHTTP   = errors.New("missing HTTP version")
	ErrTraversal = errors.New("path traversal rejected")
	ErrMalformed = errors.New("malformed request line")
	ErrBadNumber = errors.New("invalid number")
)

// ParseError ties one of the sentinel errors above to the input that caused it.
type ParseError struct {
	Kind  error
	Input string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func newParseError(kind error, input string) *ParseError {
	return &ParseError{Kind: kind, Input: input}
}

// ParseRequestLine parses: GET TARGET VERSION
// The line may still carry its CRLF terminator.
func ParseRequestLine(line string) (*Request, error) {
	line = strings.TrimRight(line, "\r\n")

	if strings.TrimSpace(line) == "" {
		return nil, newParseError(ErrEmpty, "")
	}

	// Must run before anything looks at the target.
	if strings.Contains(line, "..") {
		return nil, newParseError(ErrTraversal, line)
	}

	if len(line) < 3 || line[:3] != "GET" {
		return nil, newParseError(ErrNotGet, line)
	}

	if !strings.Contains(line, "HTTP") {
		return nil, newParseError(ErrNotHTTP, line)
	}

	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, newParseError(ErrMalformed, line)
	}

	method, target, version := parts[0], parts[1], parts[2]
	if method != "GET" {
		return nil, newParseError(ErrNotGet, line)
	}
	if !strings.HasPrefix(version, "HTTP") {
		return nil, newParseError(ErrNotHTTP, line)
	}

	return &Request{
		Method:             method,
		Target:             target,
		HTTPVersion:        version,
		HTTPVersionPresent: true,
	}, nil
}
