package tcp

import (
	"context"
	"errors"

	"github.com/aanand-mishra/course-registration/internal/protocol"
)

// ErrQuit is returned by a handler to end the session cleanly.
var ErrQuit = errors.New("client quit")

// HandlerFunc serves one command. arg is everything after the first space
// of the command line. A non-nil error closes the session.
type HandlerFunc func(ctx context.Context, s *Session, arg string) error

// Router maps canonical command words to handlers. It is built once at
// startup and only read afterwards.
//
//	router := tcp.NewRouter()
//	router.Handle(protocol.CmdLoad, course.Load(catalog))
//	router.Handle(protocol.CmdRegister, registration.Register(store))
type Router struct {
	routes map[string]HandlerFunc
}

// NewRouter returns a router that already answers QUIT.
func NewRouter() *Router {
	r := &Router{routes: make(map[string]HandlerFunc)}
	r.Handle(protocol.CmdQuit, quit)
	return r
}

// Handle registers h for command. Registering a command twice replaces
// the earlier handler.
func (r *Router) Handle(command string, h HandlerFunc) {
	r.routes[command] = h
}

// lookup resolves aliases before matching.
func (r *Router) lookup(command string) (HandlerFunc, bool) {
	h, ok := r.routes[protocol.Canonical(command)]
	return h, ok
}

func quit(_ context.Context, s *Session, _ string) error {
	s.Logger().Info("client requested quit")
	return ErrQuit
}
