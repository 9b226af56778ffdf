package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aanand-mishra/course-registration/internal/protocol"
	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/google/uuid"
)

// Session owns one accepted connection for its whole lifetime.
//
// STATE MACHINE:
//
//	AwaitingCommand ── LOAD ───────► AwaitingCommand
//	AwaitingCommand ── REGISTER ───► AwaitingCommand
//	AwaitingCommand ── QUIT ───────► Closed
//	any state ─────── I/O error ──► Closed
//
// The snapshot is the course list most recently sent on this connection.
// Registrations are checked against it, never against the store.
type Session struct {
	conn   *protocol.Conn
	router *Router
	log    *slog.Logger

	semester string
	snapshot []types.Course
}

func newSession(conn *protocol.Conn, router *Router, log *slog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		conn:   conn,
		router: router,
		log: log.With(
			slog.String("session_id", id),
			slog.String("remote", conn.RemoteAddr().String()),
		),
	}
}

// Conn returns the framed connection.
func (s *Session) Conn() *protocol.Conn { return s.conn }

// Logger returns a logger tagged with this session.
func (s *Session) Logger() *slog.Logger { return s.log }

// Semester returns the semester of the current snapshot.
func (s *Session) Semester() string { return s.semester }

// Snapshot returns the course list last sent to the client.
func (s *Session) Snapshot() []types.Course { return s.snapshot }

// SetSnapshot replaces the session's semester and course list.
func (s *Session) SetSnapshot(semester string, courses []types.Course) {
	s.semester = semester
	s.snapshot = courses
}

// Offered looks up course in the snapshot by code and semester.
func (s *Session) Offered(course types.Course) (types.Course, bool) {
	for _, c := range s.snapshot {
		if c.Key() == course.Key() {
			return c, true
		}
	}
	return types.Course{}, false
}

// Run reads and dispatches commands until the client quits, the
// connection fails or ctx is cancelled. Errors are logged here and never
// returned: a failed session must not stop the listener.
func (s *Session) Run(ctx context.Context) {
	s.log.Info("client connected")

	// Shutdown unblocks a pending read by closing the socket.
	stop := context.AfterFunc(ctx, func() { s.conn.Abort() })
	defer stop()
	defer s.close()

	for {
		line, err := s.conn.ReadFrame()
		if err != nil {
			s.logReadError(ctx, err)
			return
		}

		command, arg := protocol.ParseCommand(line)
		s.log.Debug("command received",
			slog.String("command", command),
			slog.String("argument", arg))

		handler, ok := s.router.lookup(command)
		if !ok {
			s.log.Warn("ignoring command",
				slog.String("command", command),
				slog.String("error", fmt.Errorf("%w: %q", protocol.ErrUnknownCommand, command).Error()))
			continue
		}

		if err := handler(ctx, s, arg); err != nil {
			if errors.Is(err, ErrQuit) {
				return
			}
			s.log.Error("closing session",
				slog.String("command", protocol.Canonical(command)),
				slog.String("error", err.Error()))
			return
		}
	}
}

func (s *Session) logReadError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, io.EOF):
		s.log.Info("client disconnected")
	case ctx.Err() != nil:
		s.log.Info("session interrupted by shutdown")
	default:
		s.log.Error("read failed", slog.String("error", err.Error()))
	}
}

func (s *Session) close() {
	s.snapshot = nil
	if err := s.conn.Close(); err != nil {
		s.log.Debug("close", slog.String("error", err.Error()))
	}
	s.log.Info("session closed")
}
