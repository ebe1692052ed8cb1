package storage

import "database/sql"

// NewTestDB wraps an existing connection in a DB for tests in other
// packages.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{conn: sqlDB}
}
