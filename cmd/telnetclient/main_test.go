package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	sent  bytes.Buffer
	reply *strings.Reader
}

func (c *fakeConn) Read(p []byte) (int, error)  { return c.reply.Read(p) }
func (c *fakeConn) Write(p []byte) (int, error) { return c.sent.Write(p) }

func TestSessionSendsUntilStop(t *testing.T) {
	conn := &fakeConn{reply: strings.NewReader("HTTP/1.1 204 No Content\r\n\r\n")}
	in := strings.NewReader("GET /favicon.ico HTTP/1.1\nplease stop\nnever sent\n")
	var out bytes.Buffer

	require.NoError(t, session(in, &out, conn))

	assert.Equal(t, "GET /favicon.ico HTTP/1.1\r\n", conn.sent.String())
	assert.Contains(t, out.String(), "HTTP/1.1 204 No Content\n")
}

func TestSessionPrintsAtMostTwentyLines(t *testing.T) {
	reply := strings.Repeat("line\r\n", 30)
	conn := &fakeConn{reply: strings.NewReader(reply)}
	var out bytes.Buffer

	require.NoError(t, session(strings.NewReader("stop\n"), &out, conn))

	assert.Equal(t, replyLines, strings.Count(out.String(), "line\n"))
	assert.Empty(t, conn.sent.String())
}

func TestParseArgs(t *testing.T) {
	host, port, err := parseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
	assert.Equal(t, 2540, port)

	host, port, err = parseArgs([]string{"example.com", "8080"})
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
	assert.Equal(t, 8080, port)

	_, _, err = parseArgs([]string{"example.com", "http"})
	assert.Error(t, err)
}
