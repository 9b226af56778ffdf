// Package flatfile implements the storage interfaces on top of plain
// TAB-separated text files.
//
// Course file, one course per line:
//
//	name<TAB>code<TAB>semester
//
// Registration file, one record per line, append-only:
//
//	semester<TAB>code<TAB>studentId<TAB>firstName<TAB>lastName<TAB>email
package flatfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/types"
)

const (
	courseFields       = 3
	registrationFields = 6

	// maxLineSize caps a single stored line.
	maxLineSize = 1024 * 1024
)

// InvalidLineFormatError reports which line of which file broke the
// field-count contract. It unwraps to storage.ErrInvalidLineFormat.
type InvalidLineFormatError struct {
	Path     string
	Line     int
	Fields   int
	Expected string
}

func (e *InvalidLineFormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s: got %d fields, expected %q",
		e.Path, e.Line, storage.ErrInvalidLineFormat, e.Fields, e.Expected)
}

func (e *InvalidLineFormatError) Unwrap() error {
	return storage.ErrInvalidLineFormat
}

// Catalog reads courses from a flat file. It holds no state besides the
// path, so every LoadCourses call sees the file as it is right now.
type Catalog struct {
	path string
}

// NewCatalog returns a Catalog backed by the file at path. The file is not
// opened until the first load.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

// LoadCourses streams the course file and keeps the courses offered in
// semester. Any malformed line fails the whole load.
func (c *Catalog) LoadCourses(ctx context.Context, semester string) ([]types.Course, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("LoadCourses: open: %w", err)
	}
	defer f.Close()

	courses := make([]types.Course, 0)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("LoadCourses: %w", err)
		}
		lineNo++

		fields := splitLine(scanner.Text())
		if len(fields) != courseFields {
			return nil, &InvalidLineFormatError{
				Path:     c.path,
				Line:     lineNo,
				Fields:   len(fields),
				Expected: "NAME\tCODE\tSEMESTER",
			}
		}

		if fields[2] != semester {
			continue
		}
		courses = append(courses, types.Course{
			Name:     fields[0],
			Code:     fields[1],
			Semester: fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("LoadCourses: scan: %w", err)
	}

	return courses, nil
}

// splitLine splits a stored line on TAB, ignoring a CRLF terminator.
func splitLine(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}
