// Package course serves the LOAD command.
//
// The handler is built by a factory that captures its dependencies, the
// same closure pattern used for every command handler:
//
//	router.Handle(protocol.CmdLoad, course.Load(catalog, cfg.SemesterChoices()))
package course

import (
	"context"
	"log/slog"

	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/tcp"
	"github.com/aanand-mishra/course-registration/internal/types"
	"github.com/aanand-mishra/course-registration/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Load handles "LOAD <semester>".
// Reads the courses offered in the semester, stores them as the session's
// snapshot and sends the whole list as one frame.
//
// Success reply:
//
//	{"status":"ok","semester":"Automne","courses":[{"code":"COMP101",...}]}
//
// When the catalog cannot be read (missing file, malformed line) the
// snapshot is reset and the client gets an empty list instead of silence:
//
//	{"status":"error","error":"...","semester":"Automne","courses":[]}
//
// Only a failure to write the reply closes the session.
// ─────────────────────────────────────────────────────────────────────────────
func Load(catalog storage.CourseCatalog, semesters []types.Semester) tcp.HandlerFunc {
	known := make(map[string]bool, len(semesters))
	for _, s := range semesters {
		known[s.Label] = true
	}

	return func(ctx context.Context, s *tcp.Session, semester string) error {
		log := s.Logger().With(slog.String("semester", semester))
		log.Info("loading courses")

		if len(known) > 0 && !known[semester] {
			log.Warn("semester is not in the configured table")
		}

		courses, err := catalog.LoadCourses(ctx, semester)
		if err != nil {
			log.Error("error loading courses", slog.String("error", err.Error()))
			s.SetSnapshot(semester, nil)
			return s.Conn().WriteJSON(response.CoursesError(semester, err))
		}

		s.SetSnapshot(semester, courses)
		log.Info("courses loaded", slog.Int("count", len(courses)))

		return s.Conn().WriteJSON(response.Courses(semester, courses))
	}
}
