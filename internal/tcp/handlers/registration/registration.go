// Package registration serves the REGISTER command.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/tcp"
	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/aanand-mishra/course-registration/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrCourseNotOffered means the submitted course is not in the list
	// last sent on this connection.
	ErrCourseNotOffered = errors.New("course is not in the last loaded course list")

	errNotSaved = errors.New("registration could not be saved")
)

// validate is shared by every session. A *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// singleline keeps a value on one line of the TAB-separated store.
	err := v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\t\r\n")
	})
	if err != nil {
		panic(fmt.Sprintf("registration: register singleline validation: %v", err))
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Register handles "REGISTER". The command's argument is ignored; the form
// follows as the next frame:
//
//	{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com",
//	 "student_id":"1234567","course":{"code":"COMP101","semester":"Automne"}}
//
// Success reply:
//
//	{"status":"ok","first_name":"Ada","course_code":"COMP101","semester":"Automne"}
//
// Outcomes:
//
//	undecodable form       → session closed
//	failed validation      → error reply, session continues
//	course not in snapshot → error reply, session continues
//	store failure          → error reply, then session closed
//
// ─────────────────────────────────────────────────────────────────────────────
func Register(store storage.RegistrationStore) tcp.HandlerFunc {
	return func(ctx context.Context, s *tcp.Session, _ string) error {
		log := s.Logger()
		log.Info("registering a student")

		// ── Step 1: Read the form frame ─────────────────────────────────
		var form types.RegistrationForm
		if err := s.Conn().ReadJSON(&form); err != nil {
			return fmt.Errorf("Register: read form: %w", err)
		}

		// ── Step 2: Validate the decoded struct ─────────────────────────
		if err := validate.Struct(form); err != nil {
			var validateErrs validator.ValidationErrors
			if !errors.As(err, &validateErrs) {
				return fmt.Errorf("Register: validate: %w", err)
			}
			log.Info("registration rejected", slog.String("error", err.Error()))
			return s.Conn().WriteJSON(response.ValidationError(validateErrs))
		}

		// ── Step 3: Check the course against the session snapshot ───────
		course, ok := s.Offered(form.Course)
		if !ok {
			log.Info("registration rejected",
				slog.String("course_code", form.Course.Code),
				slog.String("course_semester", form.Course.Semester),
				slog.String("loaded_semester", s.Semester()),
				slog.String("error", ErrCourseNotOffered.Error()))
			return s.Conn().WriteJSON(response.GeneralError(
				fmt.Errorf("%w: %s", ErrCourseNotOffered, form.Course.Code)))
		}
		form.Course = course

		// ── Step 4: Persist ─────────────────────────────────────────────
		record := types.NewRegistrationRecord(form)
		if err := store.AppendRegistration(ctx, record); err != nil {
			// Best effort: the session is closing either way.
			_ = s.Conn().WriteJSON(response.GeneralError(errNotSaved))
			return fmt.Errorf("Register: %w", err)
		}

		log.Info("registration saved",
			slog.String("course_code", record.CourseCode),
			slog.String("semester", record.Semester),
			slog.String("student_id", record.StudentID))

		// ── Step 5: Acknowledge ─────────────────────────────────────────
		return s.Conn().WriteJSON(response.Registered(record))
	}
}
