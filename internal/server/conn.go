package server

import (
	"errors"
	"net"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/webserver/internal/headers"
	"github.com/Brownie44l1/webserver/internal/request"
	"github.com/Brownie44l1/webserver/internal/resolve"
	"github.com/Brownie44l1/webserver/internal/response"
)

// worker carries one connection from the request line to close. Each state
// returns the next one; nil means the connection is done.
type worker struct {
	srv   *Server
	conn  net.Conn
	entry *Entry
	start time.Time

	req      *request.Request
	resolved resolve.ResolvedPath
	resp     *response.Response
	rw       *response.Writer
}

type stateFunc func(*worker) stateFunc

// serveConn owns conn and closes it exactly once, on every path.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.metrics.ActiveConnections.Add(1)
	defer s.metrics.ActiveConnections.Add(-1)

	w := &worker{
		srv:   s,
		conn:  conn,
		start: time.Now(),
	}
	w.entry = s.sink.NewEntry(w.start)

	defer func() {
		if err := w.entry.Flush(); err != nil {
			s.Logger.Warn("stream log write failed", Field{"error", err})
		}
		w.entry.Release()
	}()
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("worker panic recovered",
				Field{"error", r},
				Field{"stack", string(debug.Stack())},
				Field{"remote", conn.RemoteAddr()},
			)
			w.entry.Addf("Panic: %v", r)
			w.internalError()
		}
	}()

	for state := readRequest; state != nil; {
		state = state(w)
	}
}

func readRequest(w *worker) stateFunc {
	if w.srv.cfg.ReadTimeout > 0 {
		w.conn.SetReadDeadline(time.Now().Add(w.srv.cfg.ReadTimeout))
	}

	req, raw, err := request.RequestFromReader(w.conn)
	w.entry.Addf("%s", raw)
	if err != nil {
		if !isParseError(err) {
			// Timeout or reset; there is nobody to answer.
			w.entry.Addf("Read error: %v", err)
			w.srv.Logger.Debug("request read failed", Field{"remote", w.conn.RemoteAddr()}, Field{"error", err})
			return finish
		}
		w.entry.Addf("Rejected: %v", err)
		w.resolved = resolve.ResolvedPath{Category: resolve.Invalid, Target: raw}
		w.resp = response.BadRequest(err)
		return sendResponse
	}

	w.req = req
	return classify
}

func classify(w *worker) stateFunc {
	w.resolved = resolve.Resolve(w.req.Target, w.srv.cfg.Root)
	w.entry.Addf("Category: %s %s (path %s)", w.resolved.Category, w.resolved.RelativePath, w.req.Path())
	return buildResponse
}

func buildResponse(w *worker) stateFunc {
	resp, err := w.srv.builder.Build(w.resolved)
	if err != nil {
		w.entry.Addf("Degraded: %v", err)
	}
	w.resp = resp
	return sendResponse
}

func sendResponse(w *worker) stateFunc {
	if w.srv.cfg.WriteTimeout > 0 {
		w.conn.SetWriteDeadline(time.Now().Add(w.srv.cfg.WriteTimeout))
	}

	w.rw = response.NewWriter(w.conn)
	if err := w.rw.WriteResponse(w.resp); err != nil {
		w.entry.Addf("Write error: %v", err)
		fields := []Field{
			{"remote", w.conn.RemoteAddr()},
			{"target", w.resolved.Target},
			{"error", err},
		}
		if w.rw.HadError() {
			w.srv.Logger.Warn("response write failed", fields...)
		} else {
			w.srv.Logger.Error("response out of order", fields...)
		}
	}
	w.entry.Addf("Response: %s (%d bytes)", w.resp.StatusLine, w.rw.BytesWritten())

	w.srv.metrics.RecordRequest(w.resolved.Category, w.resp.StatusCode, time.Since(w.start))
	return finish
}

func finish(w *worker) stateFunc {
	w.entry.Addf("Closed after %s", time.Since(w.start).Round(time.Microsecond))
	return nil
}

// internalError answers with a bare 500 unless a status line already went out.
func (w *worker) internalError() {
	if w.rw != nil && w.rw.StatusCode() != 0 {
		return
	}
	if w.srv.cfg.WriteTimeout > 0 {
		w.conn.SetWriteDeadline(time.Now().Add(w.srv.cfg.WriteTimeout))
	}
	w.rw = response.NewWriter(w.conn)
	h := headers.NewHeaders()
	h.Set("Content-Length", "0")
	if w.rw.WriteStatusLine(response.StatusInternalServerError) == nil {
		w.rw.WriteHeaders(h)
	}
	w.entry.Addf("Response: %s (%d bytes)", response.StatusLine(response.StatusInternalServerError), w.rw.BytesWritten())
	w.srv.metrics.RecordRequest(w.resolved.Category, response.StatusInternalServerError, time.Since(w.start))
}

func isParseError(err error) bool {
	var perr *request.ParseError
	return errors.As(err, &perr)
}
