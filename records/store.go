/*
store.go - Persistence interface for employee records

PURPOSE:
  Defines the boundary between the records domain and the database.
  Implementations store the record as a document; derived durations are
  never written.

CONTRACT:
  - Get returns (nil, nil) when the userId is unknown.
  - Create returns ErrDuplicateUserID when the userId is taken.
  - Update and Delete return ErrNotFound when the userId is unknown.
  - List returns records in insertion order; an empty role means all roles.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go:  SQLite with a JSON document column
  - records/store/memory.go: In-memory for testing
*/
package records

import "context"

// Store handles persistence of employee records.
type Store interface {
	Create(ctx context.Context, e Employee) error
	Get(ctx context.Context, userID string) (*Employee, error)
	List(ctx context.Context, role Role) ([]Employee, error)
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, userID string) error
}
