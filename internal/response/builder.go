package response

import (
	"errors"
	"fmt"
	"time"

	"github.com/Brownie44l1/webserver/internal/request"
	"github.com/Brownie44l1/webserver/internal/resolve"
)

// Builder turns resolved targets into complete responses.
type Builder struct {
	// ExactContentLength makes directory and CGI responses advertise their real
	// body length instead of PlaceholderContentLength.
	ExactContentLength bool

	// Now stamps the identification banner. Defaults to time.Now.
	Now func() time.Time
}

func NewBuilder(exactContentLength bool) *Builder {
	return &Builder{
		ExactContentLength: exactContentLength,
		Now:                time.Now,
	}
}

// Build dispatches on the resolved category. The response is never nil; the
// error, when set, explains a degraded reply (204, 400 or an invalid listing).
func (b *Builder) Build(rp resolve.ResolvedPath) (*Response, error) {
	switch rp.Category {
	case resolve.Empty:
		return b.Banner(), nil
	case resolve.Favicon:
		return Favicon(), nil
	case resolve.Directory:
		return b.Directory(rp)
	case resolve.CGI:
		return b.CGI(rp.Target)
	case resolve.File:
		return File(rp)
	default:
		err := &request.ParseError{Kind: request.ErrTraversal, Input: rp.Target}
		return BadRequest(err), err
	}
}

// placeholderLength is what directory and CGI responses advertise.
func (b *Builder) placeholderLength() int {
	if b.ExactContentLength {
		return -1
	}
	return PlaceholderContentLength
}

// Banner identifies the server; it answers bare "/" requests.
func (b *Builder) Banner() *Response {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	body := fmt.Sprintf("<MyWebServer> Request received: %s\r\n", now().Format("2006-01-02 15:04:05.000"))
	return withBody(New(StatusOK), ContentTypePlain, []byte(body), -1)
}

// Favicon is a fixed 204; no icon is ever served.
func Favicon() *Response {
	return New(StatusNoContent)
}

// BadRequest is the bare, non-standard "HTTP 400: reason" line.
func BadRequest(err error) *Response {
	reason := StatusText(StatusBadRequest)
	var perr *request.ParseError
	if errors.As(err, &perr) {
		reason = perr.Kind.Error()
	}
	return &Response{
		StatusCode: StatusBadRequest,
		StatusLine: fmt.Sprintf("HTTP %d: %s", StatusBadRequest, reason),
	}
}
