/*
handlers.go - HTTP API handlers for employee records

PURPOSE:
  Exposes the records service via REST API. Handles HTTP request/response,
  JSON serialization, and attaches derived durations to every record that
  goes out.

ENDPOINTS:
  Health:
    GET    /health                     Liveness

  Users:
    GET    /api/users                  List all records
    POST   /api/users                  Register
    GET    /api/users/{userId}         Get one record
    PUT    /api/users/{userId}         Partial update
    DELETE /api/users/{userId}         Delete

  Auth:
    POST   /api/admin/login            Admin login
    POST   /api/employee/login         Employee login

  Admin:
    GET    /api/admin/users            Records with role "employee"
    GET    /api/admin/summary          Headcount and average durations

REQUEST FLOW:
  1. Parse HTTP request
  2. Call records.Service (validation, hashing, storage)
  3. Compose derived fields as of today
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON {message, details?}:
  - 400: Validation errors, duplicate userId, invalid body
  - 401: Login failures
  - 404: Unknown userId, empty listings
  - 500: Internal errors

SEE ALSO:
  - dto.go:    Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/warp/staff-registry/records"
	"github.com/warp/staff-registry/tenure"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Records *records.Service

	// Now supplies "today" for derived fields. Tests pin it.
	Now func() time.Time
}

// NewHandler creates a new handler backed by the given service.
func NewHandler(svc *records.Service) *Handler {
	return &Handler{
		Records: svc,
		Now:     time.Now,
	}
}

func (h *Handler) today() tenure.Date {
	return tenure.DateOf(h.Now())
}

func (h *Handler) present(e records.Employee, today tenure.Date) EmployeeDTO {
	return toEmployeeDTO(e, tenure.Compose(e, today))
}

func (h *Handler) presentAll(list []records.Employee) []EmployeeDTO {
	today := h.today()
	dtos := make([]EmployeeDTO, len(list))
	for i, e := range list {
		dtos[i] = h.present(e, today)
	}
	return dtos
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", Message: "Server is running"})
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns every record.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Records.List(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "No users found", nil)
		return
	}

	writeJSON(w, http.StatusOK, h.presentAll(list))
}

// GetUser returns a single record.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	e, err := h.Records.Get(r.Context(), chi.URLParam(r, "userId"))
	if records.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	writeJSON(w, http.StatusOK, h.present(*e, h.today()))
}

// CreateUser registers a new record.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Records.Register(r.Context(), req.toRegistration())
	if err != nil {
		writeServiceError(w, err, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, h.present(*e, h.today()))
}

// UpdateUser merges the request onto the stored record.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Records.Update(r.Context(), chi.URLParam(r, "userId"), req.toPatch())
	if records.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "User not found for update.", nil)
		return
	}
	if err != nil {
		writeServiceError(w, err, "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, h.present(*e, h.today()))
}

// DeleteUser removes a record.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	err := h.Records.Delete(r.Context(), chi.URLParam(r, "userId"))
	if records.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted"})
}

// =============================================================================
// LOGIN HANDLERS
// =============================================================================

// AdminLogin authenticates a record with role "admin".
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, records.RoleAdmin, "Admin")
}

// EmployeeLogin authenticates a record with role "employee".
func (h *Handler) EmployeeLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, records.RoleEmployee, "Employee")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, role records.Role, label string) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "User ID and password are required", nil)
		return
	}

	e, err := h.Records.Authenticate(r.Context(), role, req.UserID, req.Password)
	if errors.Is(err, records.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid "+strings.ToLower(label)+" credentials", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: label + " login successful",
		UserID:  e.UserID,
		User:    h.present(*e, h.today()),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListEmployees returns records with role "employee" for the admin dashboard.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.Records.List(r.Context(), records.RoleEmployee)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "No employees found", nil)
		return
	}

	writeJSON(w, http.StatusOK, h.presentAll(list))
}

// Summary returns headcount by role and average durations of employees.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	list, err := h.Records.List(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	today := h.today()
	summary := SummaryDTO{AsOf: today}
	var age, current, previous, total decimal.Decimal

	for _, e := range list {
		if e.Role == records.RoleAdmin {
			summary.Admins++
			continue
		}
		summary.Employees++

		// Sum unrounded; average rounds once.
		a := tenure.Compose(e, today)
		age = age.Add(a.TotalAge.ExactYears())
		current = current.Add(a.CurrentExperience.ExactYears())
		previous = previous.Add(a.TotalPreviousExperience.ExactYears())
		total = total.Add(a.TotalExperience.ExactYears())
	}

	summary.AverageAgeYears = average(age, summary.Employees)
	summary.AverageCurrentExperienceYears = average(current, summary.Employees)
	summary.AveragePreviousExperienceYears = average(previous, summary.Employees)
	summary.AverageTotalExperienceYears = average(total, summary.Employees)

	writeJSON(w, http.StatusOK, summary)
}

func average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Details = err.Error()
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", status).Msg(message)
		}
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps records errors from a write to a status code.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *records.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message, nil)
	case errors.Is(err, records.ErrDuplicateUserID):
		writeError(w, http.StatusBadRequest, "User ID already exists. Please use a unique User ID.", nil)
	default:
		writeError(w, http.StatusInternalServerError, fallback, err)
	}
}
