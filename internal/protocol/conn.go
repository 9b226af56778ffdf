package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// DefaultMaxFrameSize is used when a Conn is created with a non-positive limit.
const DefaultMaxFrameSize = 64 * 1024

// Conn frames a net.Conn into newline-delimited messages.
//
// Writes are buffered and flushed once per frame, so a frame is on the wire
// when WriteFrame returns. A Conn is not safe for concurrent use; each side
// of the protocol drives it from one goroutine.
type Conn struct {
	conn        net.Conn
	r           *bufio.Reader
	w           *bufio.Writer
	readTimeout time.Duration
}

// NewConn wraps c. maxFrameSize bounds a single line including its newline.
// A positive readTimeout is applied as a deadline before every read.
func NewConn(c net.Conn, maxFrameSize int, readTimeout time.Duration) *Conn {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}
	return &Conn{
		conn:        c,
		r:           bufio.NewReaderSize(c, maxFrameSize),
		w:           bufio.NewWriter(c),
		readTimeout: readTimeout,
	}
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// ReadFrame returns the next line without its terminator.
// A clean close between frames yields io.EOF; a close mid-frame yields
// io.ErrUnexpectedEOF.
func (c *Conn) ReadFrame() (string, error) {
	if c.readTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return "", fmt.Errorf("ReadFrame: set deadline: %w", err)
		}
	}

	line, err := c.r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return "", fmt.Errorf("ReadFrame: %w (limit %d bytes)", ErrFrameTooLarge, c.r.Size())
	case errors.Is(err, io.EOF):
		if len(line) == 0 {
			return "", io.EOF
		}
		return "", io.ErrUnexpectedEOF
	case err != nil:
		return "", fmt.Errorf("ReadFrame: %w", err)
	}

	// ReadSlice returns a view into the reader's buffer; copy it out.
	line = bytes.TrimSuffix(line[:len(line)-1], []byte("\r"))
	return string(line), nil
}

// WriteFrame writes s as one line and flushes it.
func (c *Conn) WriteFrame(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("WriteFrame: frame contains a line break")
	}
	if _, err := c.w.WriteString(s); err != nil {
		return fmt.Errorf("WriteFrame: write: %w", err)
	}
	if err := c.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("WriteFrame: write: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("WriteFrame: flush: %w", err)
	}
	return nil
}

// ReadJSON reads one frame and decodes it into v.
// Decoding failures wrap ErrDecode.
func (c *Conn) ReadJSON(v any) error {
	frame, err := c.ReadFrame()
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(frame), v); err != nil {
		return fmt.Errorf("ReadJSON: %w: %v", ErrDecode, err)
	}
	return nil
}

// WriteJSON encodes v as compact JSON and writes it as one frame.
func (c *Conn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("WriteJSON: marshal: %w", err)
	}
	return c.WriteFrame(string(data))
}

// Close flushes pending output, closes the write side where the transport
// allows it, and then closes the socket.
func (c *Conn) Close() error {
	flushErr := c.w.Flush()
	if cw, ok := c.conn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	if flushErr != nil {
		return fmt.Errorf("Close: flush: %w", flushErr)
	}
	return nil
}

// Abort closes the socket without flushing. It is safe to call from
// another goroutine to unblock a pending read.
func (c *Conn) Abort() error {
	return c.conn.Close()
}
