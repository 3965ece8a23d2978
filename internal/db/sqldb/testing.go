package sqldb

import (
	"testing"

	"gorm.io/gorm"
)

// OpenForTest opens a migrated in-memory SQLite database closed at test cleanup.
// A single connection keeps every query on the same in-memory database.
func OpenForTest(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:?_foreign_keys=on", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}
