package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/Brownie44l1/webserver/internal/response"
)

// Server accepts connections and hands each one to its own worker goroutine.
// Workers share nothing but the stream log sink and the metrics.
type Server struct {
	Logger Logger

	cfg     Config
	builder *response.Builder
	sink    *Sink
	metrics *Metrics

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	wg       sync.WaitGroup
}

// New opens the stream log under cfg.Root. Nothing listens until Serve or
// ListenAndServe is called.
func New(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var console io.Writer
	if cfg.Console {
		console = os.Stdout
	}
	sink, err := OpenSink(cfg.LogPath(), console)
	if err != nil {
		return nil, err
	}

	return &Server{
		Logger:  NewDefaultLogger(),
		cfg:     cfg,
		builder: response.NewBuilder(cfg.ExactContentLength),
		sink:    sink,
		metrics: NewMetrics(),
	}, nil
}

// ListenAndServe binds cfg.Port and serves until the server is closed.
// A bind failure is returned immediately.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve accepts on ln until Close or Shutdown. It returns nil after a
// requested shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.listener = ln
	s.mu.Unlock()

	s.Logger.Info("listening",
		Field{"addr", ln.Addr().String()},
		Field{"root", s.cfg.Root},
		Field{"backlog", s.cfg.Backlog},
	)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger.Error("accept failed", Field{"error", err})
			continue
		}

		// Checked under mu so no Add can race a Shutdown already waiting.
		s.mu.Lock()
		if s.closed.Load() {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.serveConn(conn)
	}
}

// Addr is the bound address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting, waits for in-flight workers or ctx, then closes
// the stream log. If ctx expires first the log file is closed anyway; entries
// from workers still running after that only reach the console.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed.Store(true)
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err = errors.Join(err, ctx.Err())
	}

	return errors.Join(err, s.sink.Close())
}

// Close is Shutdown without a deadline.
func (s *Server) Close() error {
	return s.Shutdown(context.Background())
}

func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
