// Package storage defines the contracts the session handlers depend on:
// a read-only CourseCatalog and an append-only RegistrationStore.
//
// Handlers only know these interfaces. The flat-file implementations live
// in storage/flatfile and an alternative registration backend lives in
// storage/sqlite; main.go picks one at startup.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/course-registration/internal/types"
)

// ErrInvalidLineFormat is returned when a stored line does not have the
// expected number of TAB-separated fields.
var ErrInvalidLineFormat = errors.New("invalid line format")

// CourseCatalog is the source of truth for course offerings.
type CourseCatalog interface {
	// LoadCourses returns every course whose semester equals semester
	// exactly, in store order. It re-reads the store on every call and
	// fails as a whole on the first malformed line.
	LoadCourses(ctx context.Context, semester string) ([]types.Course, error)
}

// RegistrationStore durably records accepted registrations.
type RegistrationStore interface {
	// AppendRegistration appends one record. When it returns nil the
	// record is durable and visible to readers.
	AppendRegistration(ctx context.Context, record types.RegistrationRecord) error

	// ListRegistrations returns every record in append order.
	ListRegistrations(ctx context.Context) ([]types.RegistrationRecord, error)
}
