// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"relatedcontent/internal/database"
	"relatedcontent/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "relatedcontent")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "relatedcontent")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanRelatedTypes removes test related types and their links by title.
func cleanRelatedTypes(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec(`DELETE FROM related_content WHERE related_type_id IN
			(SELECT id FROM related_types WHERE title = $1)`, title)
		db.Exec("DELETE FROM related_types WHERE title = $1", title)
	}
}

// testContentType returns the seeded content type with the given model.
func testContentType(t *testing.T, db *sql.DB, model string) *models.ContentType {
	t.Helper()
	ct, err := NewContentTypeStore(db).FindByModel(context.Background(), model)
	if err != nil {
		t.Fatalf("FindByModel(%q): %v", model, err)
	}
	if ct == nil {
		t.Fatalf("content type %q missing, migrations not applied?", model)
	}
	return ct
}

// testArticle inserts an article and removes it on cleanup.
func testArticle(t *testing.T, db *sql.DB, title string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow(`INSERT INTO articles (title) VALUES ($1) RETURNING id`, title).Scan(&id); err != nil {
		t.Fatalf("insert article: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM articles WHERE id = $1", id) })
	return id
}

// uniqueTitle returns a related type title that will not collide with
// concurrently running tests.
func uniqueTitle(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
