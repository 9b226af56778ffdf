// Package types holds the shared data structures used across the
// registration server. Keeping them in one place prevents import cycles:
// protocol, storage, handlers and the client can all import types without
// depending on each other.
package types

// Course is one offering in the catalog.
//
// The natural key is Code + Semester. Courses are immutable once loaded and
// are re-read from the store on every LOAD command.
type Course struct {
	Code     string `json:"code"     validate:"required,singleline"`
	Name     string `json:"name"`
	Semester string `json:"semester" validate:"required,singleline"`
}

// Key returns the code+semester identity of the course.
func (c Course) Key() string {
	return c.Semester + "/" + c.Code
}

// RegistrationForm is the payload a client sends after the REGISTER command.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     controls the wire encoding of the framed message.
//  2. validate:"..." rules checked by go-playground/validator before the
//     form is turned into a RegistrationRecord. "singleline" is a custom
//     rule rejecting TAB, CR and LF, which would corrupt the flat store.
type RegistrationForm struct {
	FirstName string `json:"first_name" validate:"required,singleline"`
	LastName  string `json:"last_name"  validate:"required,singleline"`
	Email     string `json:"email"      validate:"required,email,singleline"`
	StudentID string `json:"student_id" validate:"required,singleline"`
	Course    Course `json:"course"`
}

// RegistrationRecord is the durable form of an accepted registration.
// Field order matches the on-disk column order.
type RegistrationRecord struct {
	Semester   string `json:"semester"`
	CourseCode string `json:"course_code"`
	StudentID  string `json:"student_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

// NewRegistrationRecord flattens a form into the record that gets stored.
func NewRegistrationRecord(form RegistrationForm) RegistrationRecord {
	return RegistrationRecord{
		Semester:   form.Course.Semester,
		CourseCode: form.Course.Code,
		StudentID:  form.StudentID,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      form.Email,
	}
}

// Semester is one entry of the configured semester-label table,
// e.g. {Key: "1", Label: "Automne"}.
type Semester struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
