/*
handlers_test.go - Tests for the HTTP API

Tests for:
- Registration, lookup, listing and deletion
- Derived durations on every response
- Validation messages and status codes
- Partial updates
- Role-scoped login
- Admin listing and summary
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/staff-registry/records"
	"github.com/warp/staff-registry/records/store"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// HELPERS
// =============================================================================

var fixedNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := NewHandler(records.NewService(store.NewMemory(), bcrypt.MinCost))
	h.Now = func() time.Time { return fixedNow }
	return NewRouter(h, RouterConfig{})
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func registration(userID, role string) map[string]any {
	return map[string]any{
		"userId":      userID,
		"password":    "s3cret",
		"fullName":    "Asha Rao",
		"designation": "Engineer",
		"department":  "Platform",
		"educationalQualifications": map[string]string{
			"ug": "B.Tech", "pg": "M.Tech", "phd": "None",
		},
		"role":          role,
		"dateOfBirth":   "1990-06-15",
		"dateOfJoining": "2021-03-01",
		"previousExperience": []map[string]string{
			{"fromDate": "2015-01-01", "toDate": "2016-01-01"},
			{"fromDate": "01-01-2017", "toDate": "2018-01-01"},
		},
	}
}

func mustRegister(t *testing.T, router http.Handler, body map[string]any) EmployeeDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[EmployeeDTO](t, rec)
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decode[HealthResponse](t, rec).Status)
}

// =============================================================================
// REGISTRATION AND DERIVED FIELDS
// =============================================================================

func TestCreateUser_ReturnsDerivedFields(t *testing.T) {
	// GIVEN: a registration with two one-year prior jobs
	router := newTestRouter(t)

	// WHEN: registering
	got := mustRegister(t, router, registration("asha", "employee"))

	// THEN: durations are computed as of the fixed today
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "asha", got.UserID)
	assert.Equal(t, DurationDTO{Years: 36, Months: 4, Days: 4, Display: "36 years, 4 months, 4 days"}, got.TotalAge)
	assert.Equal(t, DurationDTO{Years: 5, Months: 7, Days: 18, Display: "5 years, 7 months, 18 days"}, got.CurrentExperience)
	assert.Equal(t, DurationDTO{Years: 2, Months: 0, Days: 0, Display: "2 years"}, got.TotalPreviousExperience)
	assert.Equal(t, 7, got.TotalExperience.Years)
	assert.Equal(t, 7, got.TotalExperience.Months)
	assert.Equal(t, 18, got.TotalExperience.Days)

	require.Len(t, got.PreviousExperience, 2)
	assert.Equal(t, "2017-01-01", got.PreviousExperience[1].FromDate.String())
	assert.Equal(t, 1, got.PreviousExperience[1].Years)
}

func TestCreateUser_NormalizesDayFirstDates(t *testing.T) {
	router := newTestRouter(t)
	body := registration("asha", "employee")
	body["dateOfBirth"] = "15-06-1990"

	got := mustRegister(t, router, body)

	assert.Equal(t, "1990-06-15", got.DateOfBirth.String())
	assert.Equal(t, 36, got.TotalAge.Years)
}

func TestCreateUser_NeverReturnsPassword(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/users", registration("asha", "employee"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "$2a$")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCreateUser_DuplicateUserID(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	rec := do(t, router, http.MethodPost, "/api/users", registration("asha", "admin"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID already exists. Please use a unique User ID.", decode[ErrorResponse](t, rec).Message)
}

func TestCreateUser_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{
			name:    "unparseable birth date",
			mutate:  func(b map[string]any) { b["dateOfBirth"] = "June fifteenth" },
			message: "Invalid Date of Birth format. Please use ISO (YYYY-MM-DD) or DD-MM-YYYY.",
		},
		{
			name:    "unparseable joining date",
			mutate:  func(b map[string]any) { b["dateOfJoining"] = "2021-13-01" },
			message: "Invalid Date of Joining format. Please use ISO (YYYY-MM-DD) or DD-MM-YYYY.",
		},
		{
			name: "from after to",
			mutate: func(b map[string]any) {
				b["previousExperience"] = []map[string]string{{"fromDate": "2016-01-01", "toDate": "2015-01-01"}}
			},
			message: `Previous Experience "From Date" cannot be after "To Date" in entry 1.`,
		},
		{
			name: "experience ends after joining",
			mutate: func(b map[string]any) {
				b["previousExperience"] = []map[string]string{{"fromDate": "2020-01-01", "toDate": "2021-06-01"}}
			},
			message: `Previous Experience "To Date" in entry 1 cannot be after Date of Joining.`,
		},
		{
			name: "half an entry",
			mutate: func(b map[string]any) {
				b["previousExperience"] = []map[string]string{{"fromDate": "2015-01-01"}, {"fromDate": "2016-01-01"}}
			},
			message: `Both "From Date" and "To Date" are required for Previous Experience entry 1, if either is provided.`,
		},
		{
			name:    "bad role",
			mutate:  func(b map[string]any) { b["role"] = "manager" },
			message: "Role must be either employee or admin.",
		},
		{
			name:    "missing full name",
			mutate:  func(b map[string]any) { delete(b, "fullName") },
			message: "Validation error: fullName is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			body := registration("asha", "employee")
			tt.mutate(body)

			rec := do(t, router, http.MethodPost, "/api/users", body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, tt.message, decode[ErrorResponse](t, rec).Message)
		})
	}
}

func TestCreateUser_InvalidBody(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// READS
// =============================================================================

func TestListUsers_EmptyIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/users", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No users found", decode[ErrorResponse](t, rec).Message)
}

func TestListUsers_InRegistrationOrder(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("b-user", "employee"))
	mustRegister(t, router, registration("a-user", "admin"))

	rec := do(t, router, http.MethodGet, "/api/users", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]EmployeeDTO](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "b-user", list[0].UserID)
	assert.Equal(t, "a-user", list[1].UserID)
	assert.Equal(t, 36, list[1].TotalAge.Years)
}

func TestGetUser(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	rec := do(t, router, http.MethodGet, "/api/users/asha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha Rao", decode[EmployeeDTO](t, rec).FullName)

	rec = do(t, router, http.MethodGet, "/api/users/nobody", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode[ErrorResponse](t, rec).Message)
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdateUser_PartialKeepsOtherFields(t *testing.T) {
	// GIVEN: a registered employee
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	// WHEN: only the designation changes
	rec := do(t, router, http.MethodPut, "/api/users/asha", map[string]any{"designation": "Staff Engineer"})

	// THEN: dates and experience are kept
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[EmployeeDTO](t, rec)
	assert.Equal(t, "Staff Engineer", got.Designation)
	assert.Equal(t, "2021-03-01", got.DateOfJoining.String())
	assert.Len(t, got.PreviousExperience, 2)
	assert.Equal(t, 2, got.TotalPreviousExperience.Years)
}

func TestUpdateUser_NullExperienceClearsList(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	rec := do(t, router, http.MethodPut, "/api/users/asha", map[string]any{"previousExperience": nil})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[EmployeeDTO](t, rec)
	assert.Empty(t, got.PreviousExperience)
	assert.Equal(t, "0 days", got.TotalPreviousExperience.Display)
	assert.Equal(t, got.CurrentExperience, got.TotalExperience)
}

func TestUpdateUser_JoiningDateRevalidatesStoredExperience(t *testing.T) {
	// GIVEN: stored experience ending 2018-01-01
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	// WHEN: joining date moves before that
	rec := do(t, router, http.MethodPut, "/api/users/asha", map[string]any{"dateOfJoining": "2017-06-01"})

	// THEN: the second stored entry is rejected
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `Previous Experience "To Date" in entry 2 cannot be after Date of Joining.`, decode[ErrorResponse](t, rec).Message)
}

func TestUpdateUser_BlankPasswordKeepsLogin(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	rec := do(t, router, http.MethodPut, "/api/users/asha", map[string]any{"password": ""})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/employee/login", LoginRequest{UserID: "asha", Password: "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateUser_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/users/nobody", map[string]any{"designation": "x"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found for update.", decode[ErrorResponse](t, rec).Message)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDeleteUser(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("asha", "employee"))

	rec := do(t, router, http.MethodDelete, "/api/users/asha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", decode[MessageResponse](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/users/asha", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/users/asha", nil).Code)
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLogin_RoleScoped(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("boss", "admin"))
	mustRegister(t, router, registration("asha", "employee"))

	tests := []struct {
		name    string
		path    string
		req     LoginRequest
		status  int
		message string
	}{
		{"admin ok", "/api/admin/login", LoginRequest{"boss", "s3cret"}, http.StatusOK, "Admin login successful"},
		{"employee ok", "/api/employee/login", LoginRequest{"asha", "s3cret"}, http.StatusOK, "Employee login successful"},
		{"employee at admin", "/api/admin/login", LoginRequest{"asha", "s3cret"}, http.StatusUnauthorized, "Invalid admin credentials"},
		{"admin at employee", "/api/employee/login", LoginRequest{"boss", "s3cret"}, http.StatusUnauthorized, "Invalid employee credentials"},
		{"wrong password", "/api/employee/login", LoginRequest{"asha", "nope"}, http.StatusUnauthorized, "Invalid employee credentials"},
		{"unknown user", "/api/admin/login", LoginRequest{"ghost", "s3cret"}, http.StatusUnauthorized, "Invalid admin credentials"},
		{"missing password", "/api/admin/login", LoginRequest{UserID: "boss"}, http.StatusBadRequest, "User ID and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.req)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				got := decode[LoginResponse](t, rec)
				assert.Equal(t, tt.message, got.Message)
				assert.Equal(t, tt.req.UserID, got.UserID)
				assert.Equal(t, 36, got.User.TotalAge.Years)
				return
			}
			assert.Equal(t, tt.message, decode[ErrorResponse](t, rec).Message)
		})
	}
}

// =============================================================================
// ADMIN
// =============================================================================

func TestListEmployees_ExcludesAdmins(t *testing.T) {
	router := newTestRouter(t)
	mustRegister(t, router, registration("boss", "admin"))

	rec := do(t, router, http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	mustRegister(t, router, registration("asha", "employee"))

	rec = do(t, router, http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]EmployeeDTO](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "asha", list[0].UserID)
}

func TestSummary_AveragesEmployeesOnly(t *testing.T) {
	// GIVEN: two employees aged 30 and 40 with one and three years of tenure
	router := newTestRouter(t)
	young := registration("young", "employee")
	young["dateOfBirth"] = "1996-10-19"
	young["dateOfJoining"] = "2025-10-19"
	young["previousExperience"] = nil
	mustRegister(t, router, young)

	senior := registration("senior", "employee")
	senior["dateOfBirth"] = "1986-10-19"
	senior["dateOfJoining"] = "2023-10-19"
	senior["previousExperience"] = []map[string]string{{"fromDate": "2020-10-19", "toDate": "2022-10-19"}}
	mustRegister(t, router, senior)

	mustRegister(t, router, registration("boss", "admin"))

	// WHEN: asking for the summary
	rec := do(t, router, http.MethodGet, "/api/admin/summary", nil)

	// THEN: the admin is counted but not averaged
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SummaryDTO](t, rec)
	assert.Equal(t, 2, got.Employees)
	assert.Equal(t, 1, got.Admins)
	assert.True(t, decimal.NewFromInt(35).Equal(got.AverageAgeYears), got.AverageAgeYears.String())
	assert.True(t, decimal.NewFromInt(2).Equal(got.AverageCurrentExperienceYears), got.AverageCurrentExperienceYears.String())
	assert.True(t, decimal.NewFromInt(1).Equal(got.AveragePreviousExperienceYears), got.AveragePreviousExperienceYears.String())
	assert.True(t, decimal.NewFromInt(3).Equal(got.AverageTotalExperienceYears), got.AverageTotalExperienceYears.String())
	assert.Equal(t, "2026-10-19", got.AsOf.String())
}

func TestSummary_RoundsOnlyTheAverage(t *testing.T) {
	// GIVEN: one employee with two days of prior experience and one with none
	router := newTestRouter(t)
	short := registration("short", "employee")
	short["previousExperience"] = []map[string]string{{"fromDate": "2020-01-01", "toDate": "2020-01-03"}}
	mustRegister(t, router, short)

	none := registration("none", "employee")
	none["previousExperience"] = nil
	mustRegister(t, router, none)

	// WHEN: asking for the summary
	rec := do(t, router, http.MethodGet, "/api/admin/summary", nil)

	// THEN: 2/365/2 years averages to 0.00, not a per-record 0.01 halved and rounded up
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SummaryDTO](t, rec)
	assert.True(t, got.AveragePreviousExperienceYears.IsZero(), got.AveragePreviousExperienceYears.String())
}

func TestSummary_Empty(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/admin/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[SummaryDTO](t, rec)
	assert.Zero(t, got.Employees)
	assert.True(t, got.AverageAgeYears.IsZero())
}

// =============================================================================
// STATIC
// =============================================================================

func TestStatic_FallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>registry</h1>"), 0o644))

	h := NewHandler(records.NewService(store.NewMemory(), bcrypt.MinCost))
	router := NewRouter(h, RouterConfig{StaticDir: dir})

	rec := do(t, router, http.MethodGet, "/dashboard/asha", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registry")
}
