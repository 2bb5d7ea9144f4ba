package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"stockroom/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/stockroom_test?parseTime=true"

// SetupTestDB opens the integration database named by TEST_DB_DSN, falling
// back to a local 'stockroom_test' schema. The test is skipped when the
// database cannot be reached.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the service tables and empties them.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	truncate(t, db)
}

// CleanupTestDB empties the service tables and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	// Children first so foreign keys hold.
	for i := len(mysql.Schema) - 1; i >= 0; i-- {
		table := mysql.Schema[i].Name
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
