// Package tcp serves the registration protocol over TCP.
//
// SCHEDULING MODEL:
// ─────────────────
// Server accepts one connection, runs its Session to completion, and only
// then accepts the next one. There is never more than one live Session,
// so registrations reach the store in the order their sessions complete
// and the store needs no locking. Do not add a goroutine per connection
// without also serialising RegistrationStore appends.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/aanand-mishra/course-registration/internal/config"
	"github.com/aanand-mishra/course-registration/internal/protocol"
)

// Accept errors other than shutdown are retried after a delay that doubles
// from minAcceptDelay up to maxAcceptDelay and resets on the next success.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server is the Listener: it owns the bound socket and the accept loop.
type Server struct {
	listener     net.Listener
	router       *Router
	log          *slog.Logger
	readTimeout  time.Duration
	maxFrameSize int
}

// Listen binds cfg.Addr. Failing to bind is a startup error; nothing is
// served until Serve is called.
func Listen(cfg config.TCPServer, router *Router, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("tcp.Listen: %w", err)
	}
	return &Server{
		listener:     ln,
		router:       router,
		log:          log,
		readTimeout:  cfg.ReadTimeout,
		maxFrameSize: cfg.MaxFrameSize,
	}, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until ctx is cancelled or Close is called,
// and then returns nil. Sessions run on the calling goroutine, one at a
// time.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.listener.Close() })
	defer stop()

	s.log.Info("server started", slog.String("address", s.Addr().String()))

	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("server stopped")
				return nil
			}
			delay = nextAcceptDelay(delay)
			s.log.Error("accept failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", delay))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.log.Info("server stopped")
				return nil
			case <-timer.C:
			}
			continue
		}
		delay = 0

		session := newSession(protocol.NewConn(conn, s.maxFrameSize, s.readTimeout), s.router, s.log)
		session.Run(ctx)
	}
}

func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}

// Close stops accepting connections. A session in progress is finished
// by Serve's context, not by Close.
func (s *Server) Close() error {
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("tcp.Close: %w", err)
	}
	return nil
}
