package response

import (
	"bytes"
	"strconv"

	"github.com/Brownie44l1/webserver/internal/headers"
)

const (
	ContentTypeHTML  = "text/html"
	ContentTypePlain = "text/plain"
)

// PlaceholderContentLength is advertised by directory and CGI responses when
// the builder is not asked for exact lengths.
const PlaceholderContentLength = 5000

// Response is a complete reply, built in memory before anything is sent.
type Response struct {
	StatusCode StatusCode
	StatusLine string
	Headers    *headers.Headers // nil: the status line is the whole response
	Body       []byte
}

// New returns a response with a standard status line and no headers set yet.
func New(code StatusCode) *Response {
	return &Response{
		StatusCode: code,
		StatusLine: StatusLine(code),
		Headers:    headers.NewHeaders(),
	}
}

// withBody sets body, Content-Length and Content-Type, in that header order.
// A negative length means the exact body length.
func withBody(r *Response, contentType string, body []byte, length int) *Response {
	if length < 0 {
		length = len(body)
	}
	r.Headers.Set("Content-Length", strconv.Itoa(length))
	r.Headers.Set("Content-Type", contentType)
	r.Body = body
	return r
}

// ContentLength returns the advertised Content-Length, if any.
func (r *Response) ContentLength() (int, bool) {
	if r.Headers == nil {
		return 0, false
	}
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bytes encodes the response exactly as it goes on the wire.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = NewWriter(&buf).WriteResponse(r)
	return buf.Bytes()
}
