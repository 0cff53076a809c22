// store_test.go provides the shared test database helpers. SQLite runs in
// memory; the PostgreSQL variant is skipped if no server is available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"salonsite/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "salonsite")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "salonsite")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a migrated database for driver. PostgreSQL tests are
// skipped when the server is unreachable.
func testDB(t *testing.T, driver string) *sql.DB {
	t.Helper()

	dsn := ":memory:?_foreign_keys=on"
	if driver == database.DriverPostgres {
		dsn = testDSN()
	}
	db, err := database.Connect(context.Background(), driver, dsn)
	if err != nil {
		if driver == database.DriverPostgres {
			t.Skipf("skipping integration test: DB not reachable: %v", err)
		}
		t.Fatal(err)
	}

	if err := database.Migrate(db, driver); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	if driver == database.DriverPostgres {
		if _, err := db.Exec("DELETE FROM generations"); err != nil {
			t.Fatal(err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// forEachDriver runs fn against SQLite and, when reachable, PostgreSQL.
func forEachDriver(t *testing.T, fn func(t *testing.T, db *sql.DB)) {
	for _, driver := range []string{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			fn(t, testDB(t, driver))
		})
	}
}
