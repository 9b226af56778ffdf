// Package protocol defines the line-oriented wire protocol spoken between
// the registration client and server.
//
// Every message is one frame: a single UTF-8 line terminated by "\n".
// Command frames are plain text ("LOAD Automne", "REGISTER", "QUIT").
// Data frames (course lists, registration forms, acknowledgements) are one
// line of compact JSON.
package protocol

import (
	"errors"
	"strings"
)

// Commands
const (
	CmdLoad     = "LOAD"
	CmdRegister = "REGISTER"
	CmdQuit     = "QUIT"
)

// aliases maps the original French command words onto the canonical ones.
var aliases = map[string]string{
	"CHARGER":  CmdLoad,
	"INSCRIRE": CmdRegister,
	"QUITTER":  CmdQuit,
}

var (
	// ErrUnknownCommand is a ProtocolError: the command word is not recognised.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDecode means a frame could not be decoded into the expected type.
	ErrDecode = errors.New("cannot decode message")

	// ErrFrameTooLarge means a line exceeded the configured maximum size.
	ErrFrameTooLarge = errors.New("frame too large")
)

// ParseCommand splits line on its first space into a command and an
// argument. The argument keeps any further spaces verbatim and is empty
// when the line has no space.
func ParseCommand(line string) (command, argument string) {
	command, argument, _ = strings.Cut(line, " ")
	return command, argument
}

// Canonical maps an alias onto its canonical command word. Anything else
// is returned unchanged.
func Canonical(command string) string {
	if c, ok := aliases[command]; ok {
		return c
	}
	return command
}

// FormatLoad builds the LOAD command line for semester.
func FormatLoad(semester string) string {
	return CmdLoad + " " + semester
}
