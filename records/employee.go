/*
Package records manages employee records: registration, partial updates,
role-scoped login and deletion.

PURPOSE:
  Owns the rules that sit in front of storage. Dates are validated and
  normalized here before anything is persisted, passwords are hashed here,
  and partial updates are merged onto the stored record and re-validated as a
  whole.

KEY TYPES:
  - Employee:     the stored record (never carries derived durations)
  - Registration: create request
  - Patch:        partial update request (nil field = keep stored value)
  - Service:      the operations, on top of a Store

DERIVED FIELDS:
  Employee implements tenure.Subject. Age and experience totals are computed
  by tenure.Compose at response time and never stored.

SEE ALSO:
  - validate.go: Date validation shared by create and update
  - store.go:    Persistence interface
  - tenure/:     Duration engine
*/
package records

import (
	"time"

	"github.com/warp/staff-registry/tenure"
)

// Role decides which login endpoint accepts the record.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool { return r == RoleEmployee || r == RoleAdmin }

// Education holds the qualification fields. All three are required.
type Education struct {
	UG  string `json:"ug"`
	PG  string `json:"pg"`
	PhD string `json:"phd"`
}

// Employee is a stored employee record.
type Employee struct {
	ID          string
	UserID      string
	FullName    string
	Designation string
	Department  string
	Education   Education
	Role        Role

	DateOfBirth        tenure.Date
	DateOfJoining      tenure.Date
	PreviousExperience tenure.Experience

	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Compile-time check that Employee can be composed.
var _ tenure.Subject = Employee{}

func (e Employee) BirthDate() tenure.Date             { return e.DateOfBirth }
func (e Employee) JoiningDate() tenure.Date           { return e.DateOfJoining }
func (e Employee) PriorSpans() ([]tenure.Span, error) { return e.PreviousExperience.Spans() }
func (e Employee) SubjectID() string                  { return e.UserID }
