/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Field names are
  camelCase because the browser UI reads and posts them that way.

NAMING CONVENTION:
  - *DTO:      Response types returned to clients
  - *Request:  Request body types from clients
  - *Response: Small response wrappers

DERIVED FIELDS:
  Every EmployeeDTO carries totalAge, currentExperience,
  totalPreviousExperience and totalExperience, computed by tenure.Compose at
  response time. They are ignored if a client posts them back.

SECURITY NOTE:
  The password hash never appears in a response.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/staff-registry/records"
	"github.com/warp/staff-registry/tenure"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	UserID                    string                  `json:"userId"`
	Password                  string                  `json:"password"`
	FullName                  string                  `json:"fullName"`
	Designation               string                  `json:"designation"`
	Department                string                  `json:"department"`
	EducationalQualifications records.Education       `json:"educationalQualifications"`
	Role                      string                  `json:"role"`
	DateOfBirth               string                  `json:"dateOfBirth"`
	DateOfJoining             string                  `json:"dateOfJoining"`
	PreviousExperience        records.ExperienceInput `json:"previousExperience"`
}

func (req RegisterRequest) toRegistration() records.Registration {
	return records.Registration{
		UserID:             req.UserID,
		Password:           req.Password,
		FullName:           req.FullName,
		Designation:        req.Designation,
		Department:         req.Department,
		Education:          req.EducationalQualifications,
		Role:               records.Role(req.Role),
		DateOfBirth:        req.DateOfBirth,
		DateOfJoining:      req.DateOfJoining,
		PreviousExperience: req.PreviousExperience,
	}
}

// UpdateRequest is the body of PUT /api/users/{userId}. Absent fields keep
// their stored values.
type UpdateRequest struct {
	Password                  *string                 `json:"password"`
	FullName                  *string                 `json:"fullName"`
	Designation               *string                 `json:"designation"`
	Department                *string                 `json:"department"`
	EducationalQualifications *records.Education      `json:"educationalQualifications"`
	Role                      *string                 `json:"role"`
	DateOfBirth               *string                 `json:"dateOfBirth"`
	DateOfJoining             *string                 `json:"dateOfJoining"`
	PreviousExperience        records.ExperienceInput `json:"previousExperience"`
}

func (req UpdateRequest) toPatch() records.Patch {
	p := records.Patch{
		Password:           req.Password,
		FullName:           req.FullName,
		Designation:        req.Designation,
		Department:         req.Department,
		Education:          req.EducationalQualifications,
		DateOfBirth:        req.DateOfBirth,
		DateOfJoining:      req.DateOfJoining,
		PreviousExperience: req.PreviousExperience,
	}
	if req.Role != nil {
		role := records.Role(*req.Role)
		p.Role = &role
	}
	return p
}

// LoginRequest is the body of both login endpoints.
type LoginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DurationDTO is a derived duration with its display form.
type DurationDTO struct {
	Years   int    `json:"years"`
	Months  int    `json:"months"`
	Days    int    `json:"days"`
	Display string `json:"display"`
}

// ExperienceDTO is one previous-experience entry with its own duration.
type ExperienceDTO struct {
	FromDate tenure.Date `json:"fromDate"`
	ToDate   tenure.Date `json:"toDate"`
	Years    int         `json:"years"`
	Months   int         `json:"months"`
	Days     int         `json:"days"`
}

// EmployeeDTO is an employee record with its derived fields.
type EmployeeDTO struct {
	ID                        string            `json:"id"`
	UserID                    string            `json:"userId"`
	FullName                  string            `json:"fullName"`
	Designation               string            `json:"designation"`
	Department                string            `json:"department"`
	EducationalQualifications records.Education `json:"educationalQualifications"`
	Role                      string            `json:"role"`
	DateOfBirth               tenure.Date       `json:"dateOfBirth"`
	DateOfJoining             tenure.Date       `json:"dateOfJoining"`
	PreviousExperience        []ExperienceDTO   `json:"previousExperience"`

	TotalAge                DurationDTO `json:"totalAge"`
	CurrentExperience       DurationDTO `json:"currentExperience"`
	TotalPreviousExperience DurationDTO `json:"totalPreviousExperience"`
	TotalExperience         DurationDTO `json:"totalExperience"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message string      `json:"message"`
	UserID  string      `json:"userId"`
	User    EmployeeDTO `json:"user"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SummaryDTO aggregates the employee population for the admin dashboard.
// Averages are in decimal years over records with role "employee".
type SummaryDTO struct {
	Employees                      int             `json:"employees"`
	Admins                         int             `json:"admins"`
	AverageAgeYears                decimal.Decimal `json:"averageAgeYears"`
	AverageCurrentExperienceYears  decimal.Decimal `json:"averageCurrentExperienceYears"`
	AveragePreviousExperienceYears decimal.Decimal `json:"averagePreviousExperienceYears"`
	AverageTotalExperienceYears    decimal.Decimal `json:"averageTotalExperienceYears"`
	AsOf                           tenure.Date     `json:"asOf"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDurationDTO(d tenure.Duration) DurationDTO {
	return DurationDTO{Years: d.Years, Months: d.Months, Days: d.Days, Display: d.String()}
}

func toEmployeeDTO(e records.Employee, a tenure.Annotation) EmployeeDTO {
	experience := make([]ExperienceDTO, len(a.PreviousExperience))
	for i, iv := range a.PreviousExperience {
		experience[i] = ExperienceDTO{
			FromDate: iv.From,
			ToDate:   iv.To,
			Years:    iv.Years,
			Months:   iv.Months,
			Days:     iv.Days,
		}
	}

	dto := EmployeeDTO{
		ID:                        e.ID,
		UserID:                    e.UserID,
		FullName:                  e.FullName,
		Designation:               e.Designation,
		Department:                e.Department,
		EducationalQualifications: e.Education,
		Role:                      string(e.Role),
		DateOfBirth:               e.DateOfBirth,
		DateOfJoining:             e.DateOfJoining,
		PreviousExperience:        experience,
		TotalAge:                  toDurationDTO(a.TotalAge),
		CurrentExperience:         toDurationDTO(a.CurrentExperience),
		TotalPreviousExperience:   toDurationDTO(a.TotalPreviousExperience),
		TotalExperience:           toDurationDTO(a.TotalExperience),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		dto.UpdatedAt = e.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}
