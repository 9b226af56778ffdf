package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aanand-mishra/course-registration/internal/types"
)

// Registrations appends records to a flat file.
//
// Each append opens the file, writes one line, syncs and closes it. No
// handle is held between registrations, so a successful append is on disk
// and visible to any other reader when AppendRegistration returns.
type Registrations struct {
	path string
}

// NewRegistrations returns a store appending to the file at path. The file
// and its parent directory are created on first append.
func NewRegistrations(path string) *Registrations {
	return &Registrations{path: path}
}

// AppendRegistration writes record as one TAB-separated line.
func (r *Registrations) AppendRegistration(ctx context.Context, record types.RegistrationRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("AppendRegistration: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("AppendRegistration: create directory: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("AppendRegistration: open: %w", err)
	}

	// One Write call per record: O_APPEND makes the single write land
	// after any existing content.
	if _, err := f.WriteString(formatRecord(record)); err != nil {
		f.Close()
		return fmt.Errorf("AppendRegistration: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("AppendRegistration: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("AppendRegistration: close: %w", err)
	}
	return nil
}

// ListRegistrations reads every record back in append order. A missing
// file means nothing has been registered yet.
func (r *Registrations) ListRegistrations(ctx context.Context) ([]types.RegistrationRecord, error) {
	records := make([]types.RegistrationRecord, 0)

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ListRegistrations: open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ListRegistrations: %w", err)
		}
		lineNo++

		fields := splitLine(scanner.Text())
		if len(fields) != registrationFields {
			return nil, &InvalidLineFormatError{
				Path:     r.path,
				Line:     lineNo,
				Fields:   len(fields),
				Expected: "SEMESTER\tCOURSE_ID\tSTUDENT_ID\tFIRST_NAME\tLAST_NAME\tEMAIL",
			}
		}
		records = append(records, types.RegistrationRecord{
			Semester:   fields[0],
			CourseCode: fields[1],
			StudentID:  fields[2],
			FirstName:  fields[3],
			LastName:   fields[4],
			Email:      fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ListRegistrations: scan: %w", err)
	}

	return records, nil
}

func formatRecord(rec types.RegistrationRecord) string {
	return strings.Join([]string{
		rec.Semester,
		rec.CourseCode,
		rec.StudentID,
		rec.FirstName,
		rec.LastName,
		rec.Email,
	}, "\t") + "\n"
}
