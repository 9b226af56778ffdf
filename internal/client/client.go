// Package client speaks the registration protocol from the student side.
// Presentation layers (a console menu, a form) sit on top of it.
//
// A Client mirrors the server's session: it remembers the course list from
// the last LOAD and only builds registration forms for courses in it.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/aanand-mishra/course-registration/internal/protocol"
	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/aanand-mishra/course-registration/internal/utils/response"
)

var (
	// ErrUnknownCourse means the code is not in the last loaded list.
	ErrUnknownCourse = errors.New("invalid course code")

	// ErrRejected wraps an error reply from the server.
	ErrRejected = errors.New("server rejected request")
)

// Client is one connection to the registration server. It is not safe for
// concurrent use.
type Client struct {
	conn     *protocol.Conn
	semester string
	courses  []types.Course
}

// Dial connects to addr. readTimeout bounds each reply wait; zero disables it.
func Dial(ctx context.Context, addr string, readTimeout time.Duration) (*Client, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client.Dial: %w", err)
	}
	return &Client{conn: protocol.NewConn(c, protocol.DefaultMaxFrameSize, readTimeout)}, nil
}

// Courses returns the list from the last successful LoadCourses.
func (c *Client) Courses() []types.Course { return c.courses }

// Semester returns the semester of the last LoadCourses.
func (c *Client) Semester() string { return c.semester }

// LoadCourses asks for the courses of semester and remembers them.
// An error reply from the server clears the remembered list.
func (c *Client) LoadCourses(semester string) ([]types.Course, error) {
	if err := c.conn.WriteFrame(protocol.FormatLoad(semester)); err != nil {
		return nil, fmt.Errorf("LoadCourses: %w", err)
	}

	var reply response.CourseList
	if err := c.conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("LoadCourses: %w", err)
	}

	c.semester = semester
	if reply.Status != response.StatusOK {
		c.courses = nil
		return nil, fmt.Errorf("LoadCourses: %w: %s", ErrRejected, reply.Error)
	}
	c.courses = reply.Courses
	return reply.Courses, nil
}

// NewForm builds a registration form for courseCode, which must be in the
// last loaded list.
func (c *Client) NewForm(firstName, lastName, email, studentID, courseCode string) (types.RegistrationForm, error) {
	for _, course := range c.courses {
		if course.Code == courseCode {
			return types.RegistrationForm{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				StudentID: studentID,
				Course:    course,
			}, nil
		}
	}
	return types.RegistrationForm{}, fmt.Errorf("NewForm: %w: %s", ErrUnknownCourse, courseCode)
}

// Register sends REGISTER followed by form and waits for the acknowledgement.
func (c *Client) Register(form types.RegistrationForm) (response.Ack, error) {
	if err := c.conn.WriteFrame(protocol.CmdRegister); err != nil {
		return response.Ack{}, fmt.Errorf("Register: %w", err)
	}
	if err := c.conn.WriteJSON(form); err != nil {
		return response.Ack{}, fmt.Errorf("Register: %w", err)
	}

	var ack response.Ack
	if err := c.conn.ReadJSON(&ack); err != nil {
		return response.Ack{}, fmt.Errorf("Register: %w", err)
	}
	if ack.Status != response.StatusOK {
		return ack, fmt.Errorf("Register: %w: %s", ErrRejected, ack.Error)
	}
	return ack, nil
}

// Send writes a raw command line. It exists for commands without a reply.
func (c *Client) Send(line string) error {
	return c.conn.WriteFrame(line)
}

// Quit sends QUIT and closes the connection.
func (c *Client) Quit() error {
	writeErr := c.conn.WriteFrame(protocol.CmdQuit)
	closeErr := c.conn.Close()
	if writeErr != nil {
		return fmt.Errorf("Quit: %w", writeErr)
	}
	return closeErr
}

// Close drops the connection without sending QUIT.
func (c *Client) Close() error {
	return c.conn.Close()
}
