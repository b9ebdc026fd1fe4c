/*
Package sqlite provides a SQLite-backed implementation of records.Store.

PURPOSE:
  Persists employee records as JSON documents. Identity, role and the
  password hash live in their own columns (they are queried and must never
  leak into the document); the profile, including the previousExperience list,
  is one JSON document per row.

KEY TABLES:
  employees: one row per record
    id            uuid assigned at registration
    user_id       unique, the lookup key for every route
    role          'employee' | 'admin'
    password_hash bcrypt hash
    document      JSON profile (names, qualifications, dates, experience)

DOCUMENT READS:
  A damaged document field never fails the read. The previousExperience
  value is kept exactly as stored and surfaces when the derived fields are
  composed, which degrades that one record to zero durations. A birth or
  joining date of the wrong JSON type loads as missing and is logged.

CONCURRENCY:
  Uses sync.RWMutex around the *sql.DB. ":memory:" databases are pinned to a
  single connection so every query sees the same schema.

WAL MODE:
  File databases are opened with WAL journaling.

USAGE:
  store, err := sqlite.New("./data/staff.db")
  if err != nil {
      log.Fatal().Err(err).Msg("open store")
  }
  defer store.Close()

SEE ALSO:
  - records/store.go:        Interface definition
  - records/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/warp/staff-registry/records"
	"github.com/warp/staff-registry/tenure"
)

// Store implements records.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == ":memory:" {
		dsn = dbPath
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('employee', 'admin')),
		password_hash TEXT NOT NULL,
		document TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_user_id
		ON employees(user_id);

	-- Admin dashboard lists employees only
	CREATE INDEX IF NOT EXISTS idx_employees_role
		ON employees(role);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOCUMENT
// =============================================================================

// document is the JSON stored in employees.document.
type document struct {
	FullName           string            `json:"fullName"`
	Designation        string            `json:"designation"`
	Department         string            `json:"department"`
	Education          records.Education `json:"educationalQualifications"`
	DateOfBirth        storedDate        `json:"dateOfBirth"`
	DateOfJoining      storedDate        `json:"dateOfJoining"`
	PreviousExperience tenure.Experience `json:"previousExperience"`
}

// storedDate is a top-level document date. A value that is not a string or
// null decodes to the zero Date instead of failing the whole row.
type storedDate struct {
	tenure.Date
}

func (d *storedDate) UnmarshalJSON(data []byte) error {
	if err := d.Date.UnmarshalJSON(data); err != nil {
		log.Warn().Err(err).Msg("unreadable stored date, treating as missing")
		d.Date = tenure.Date{}
	}
	return nil
}

func encodeDocument(e records.Employee) (string, error) {
	doc := document{
		FullName:           e.FullName,
		Designation:        e.Designation,
		Department:         e.Department,
		Education:          e.Education,
		DateOfBirth:        storedDate{e.DateOfBirth},
		DateOfJoining:      storedDate{e.DateOfJoining},
		PreviousExperience: e.PreviousExperience,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

func decodeDocument(raw string, e *records.Employee) error {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("decode document for %q: %w", e.UserID, err)
	}
	e.FullName = doc.FullName
	e.Designation = doc.Designation
	e.Department = doc.Department
	e.Education = doc.Education
	e.DateOfBirth = doc.DateOfBirth.Date
	e.DateOfJoining = doc.DateOfJoining.Date
	e.PreviousExperience = doc.PreviousExperience
	return nil
}

// =============================================================================
// EMPLOYEE STORE (records.Store interface)
// =============================================================================

const selectColumns = "id, user_id, role, password_hash, document, created_at, updated_at"

// Create inserts a new record.
func (s *Store) Create(ctx context.Context, e records.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := encodeDocument(e)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO employees (id, user_id, role, password_hash, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Role), e.PasswordHash, doc, now, now,
	)
	if isUniqueConstraintError(err) {
		return records.ErrDuplicateUserID
	}
	return err
}

// Get retrieves a record by userId. Returns (nil, nil) when missing.
func (s *Store) Get(ctx context.Context, userID string) (*records.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM employees WHERE user_id = ?",
		userID,
	)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns records in insertion order, optionally filtered by role.
func (s *Store) List(ctx context.Context, role records.Role) ([]records.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + selectColumns + " FROM employees"
	var args []any
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, string(role))
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []records.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Update replaces the stored record with the same userId.
func (s *Store) Update(ctx context.Context, e records.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := encodeDocument(e)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET role = ?, password_hash = ?, document = ?, updated_at = ?
		WHERE user_id = ?`,
		string(e.Role), e.PasswordHash, doc, time.Now().UTC().Format(time.RFC3339), e.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE user_id = ?", userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Compile-time check
var _ records.Store = (*Store)(nil)

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (records.Employee, error) {
	var (
		e                    records.Employee
		role, doc            string
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.UserID, &role, &e.PasswordHash, &doc, &createdAt, &updatedAt); err != nil {
		return records.Employee{}, err
	}
	e.Role = records.Role(role)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if err := decodeDocument(doc, &e); err != nil {
		return records.Employee{}, err
	}
	return e, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
