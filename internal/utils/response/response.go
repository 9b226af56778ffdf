// Package response defines the JSON envelopes the server writes back to
// the client, one per framed reply.
//
// Every reply carries a status. Error replies always look like:
//
//	{"status":"error","error":"field Email must be a valid email address"}
//
// so a client can tell success from failure without knowing which command
// it answered.
package response

import (
	"fmt"
	"strings"

	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/go-playground/validator/v10"
)

// Status string constants. Use these instead of raw string literals so a
// typo is caught by the compiler.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the standard envelope for error replies.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CourseList answers LOAD. Courses is never null on the wire.
type CourseList struct {
	Status   string         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Semester string         `json:"semester"`
	Courses  []types.Course `json:"courses"`
}

// Ack answers a successful REGISTER.
type Ack struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	CourseCode string `json:"course_code,omitempty"`
	Semester   string `json:"semester,omitempty"`
}

// Courses builds a successful LOAD reply.
func Courses(semester string, courses []types.Course) CourseList {
	if courses == nil {
		courses = []types.Course{}
	}
	return CourseList{Status: StatusOK, Semester: semester, Courses: courses}
}

// CoursesError builds a failed LOAD reply: an empty list plus the reason.
func CoursesError(semester string, err error) CourseList {
	return CourseList{
		Status:   StatusError,
		Error:    err.Error(),
		Semester: semester,
		Courses:  []types.Course{},
	}
}

// Registered builds the acknowledgement for an accepted registration.
func Registered(rec types.RegistrationRecord) Ack {
	return Ack{
		Status:     StatusOK,
		FirstName:  rec.FirstName,
		CourseCode: rec.CourseCode,
		Semester:   rec.Semester,
	}
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts the validator's per-field errors into a single
// human-readable Response.
//
// Example output:
//
//	{"status":"error","error":"field FirstName is required, field Email must be a valid email address"}
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "singleline":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not contain tabs or line breaks", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
