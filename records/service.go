package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/warp/staff-registry/tenure"
)

// Registration is a create request. Dates are raw strings; they are parsed
// and validated before anything is stored.
type Registration struct {
	UserID      string
	Password    string
	FullName    string
	Designation string
	Department  string
	Education   Education
	Role        Role

	DateOfBirth        string
	DateOfJoining      string
	PreviousExperience ExperienceInput
}

// Patch is a partial update. Nil fields keep the stored value, as do blank
// dates and a blank password. The userId itself cannot be changed.
type Patch struct {
	FullName    *string
	Designation *string
	Department  *string
	Education   *Education
	Role        *Role
	Password    *string

	DateOfBirth        *string
	DateOfJoining      *string
	PreviousExperience ExperienceInput
}

// Service implements the record operations on top of a Store.
type Service struct {
	store      Store
	bcryptCost int
}

// NewService creates a service. A zero bcryptCost uses DefaultBcryptCost.
func NewService(store Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &Service{store: store, bcryptCost: bcryptCost}
}

// =============================================================================
// READS
// =============================================================================

// Get returns the record for userID or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (*Employee, error) {
	e, err := s.store.Get(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns all records, or only those with the given role.
func (s *Service) List(ctx context.Context, role Role) ([]Employee, error) {
	list, err := s.store.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// =============================================================================
// WRITES
// =============================================================================

// Register validates and stores a new record.
func (s *Service) Register(ctx context.Context, reg Registration) (*Employee, error) {
	userID := strings.TrimSpace(reg.UserID)

	dates, err := ValidateDates(DateInput{
		DateOfBirth:        reg.DateOfBirth,
		DateOfJoining:      reg.DateOfJoining,
		PreviousExperience: reg.PreviousExperience,
	}, nil)
	if err != nil {
		return nil, err
	}

	if !reg.Role.Valid() {
		return nil, invalid("role", "Role must be either employee or admin.")
	}
	if isBlank(reg.Password) {
		return nil, invalid("password", "Validation error: password is required")
	}

	e := Employee{
		ID:                 uuid.NewString(),
		UserID:             userID,
		FullName:           reg.FullName,
		Designation:        reg.Designation,
		Department:         reg.Department,
		Education:          reg.Education,
		Role:               reg.Role,
		DateOfBirth:        dates.DateOfBirth,
		DateOfJoining:      dates.DateOfJoining,
		PreviousExperience: tenure.NewExperience(dates.PreviousExperience),
	}
	if err := validateRequired(e); err != nil {
		return nil, err
	}

	e.PasswordHash, err = HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create employee %q: %w", userID, err)
	}

	log.Info().Str("user_id", userID).Str("role", string(e.Role)).Msg("employee registered")
	return s.Get(ctx, userID)
}

// Update merges p onto the stored record, re-validates the merged view and
// stores it.
func (s *Service) Update(ctx context.Context, userID string, p Patch) (*Employee, error) {
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	dates, err := ValidateDates(DateInput{
		DateOfBirth:        deref(p.DateOfBirth),
		DateOfJoining:      deref(p.DateOfJoining),
		PreviousExperience: p.PreviousExperience,
	}, existing)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if p.FullName != nil {
		merged.FullName = *p.FullName
	}
	if p.Designation != nil {
		merged.Designation = *p.Designation
	}
	if p.Department != nil {
		merged.Department = *p.Department
	}
	if p.Education != nil {
		merged.Education = *p.Education
	}
	if p.Role != nil {
		merged.Role = *p.Role
	}
	merged.DateOfBirth = dates.DateOfBirth
	merged.DateOfJoining = dates.DateOfJoining
	if p.PreviousExperience.Set {
		merged.PreviousExperience = tenure.NewExperience(dates.PreviousExperience)
	}

	if err := validateRequired(merged); err != nil {
		return nil, err
	}

	if p.Password != nil && *p.Password != "" {
		merged.PasswordHash, err = HashPassword(*p.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("update employee %q: %w", merged.UserID, err)
	}
	return s.Get(ctx, merged.UserID)
}

// Delete removes the record for userID or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete employee %q: %w", userID, err)
	}
	log.Info().Str("user_id", userID).Msg("employee deleted")
	return nil
}

// =============================================================================
// LOGIN
// =============================================================================

// Authenticate checks a userId/password pair for the given role. Every
// failure is ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, role Role, userID, password string) (*Employee, error) {
	userID = strings.TrimSpace(userID)
	logger := log.With().Str("user_id", userID).Str("role", string(role)).Logger()

	e, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if e == nil || e.Role != role {
		logger.Info().Msg("login failed: no such user for role")
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(e.PasswordHash, password) {
		logger.Info().Msg("login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	logger.Info().Msg("login succeeded")
	return e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
