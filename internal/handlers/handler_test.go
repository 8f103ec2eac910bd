// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"relatedcontent/internal/admin"
	"relatedcontent/internal/database"
	"relatedcontent/internal/middleware"
	"relatedcontent/internal/models"
	"relatedcontent/internal/render"
	"relatedcontent/internal/session"
	"relatedcontent/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "relatedcontent")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "relatedcontent")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "rc:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB           *sql.DB
	Valkey       *redis.Client
	Renderer     *render.Renderer
	Sessions     *session.Store
	UserStore    *store.UserStore
	Types        *store.RelatedTypeStore
	ContentTypes *store.ContentTypeStore
	Links        *store.RelatedContentStore
	Inlines      *admin.InlineRegistry
	Admin        *Admin
	Auth         *Auth
}

// newTestEnv creates a development-mode environment without an initial
// relationship type and without restricted inlines.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, true, noSettings, nil)
}

var noSettings = admin.SettingsFunc(func(string) map[string]string { return nil })

// newTestEnvWith creates a test environment with the given settings and
// inline options.
func newTestEnvWith(t *testing.T, devMode bool, settings admin.Settings, options map[string]admin.InlineOptions) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	site := admin.NewSite()
	if err := site.Register(admin.ModelAdmin{Name: "related_type", VerboseName: "Related types", URL: "/admin/related-types"}); err != nil {
		t.Fatalf("site.Register: %v", err)
	}

	renderer, err := render.New(devMode, site)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	types := store.NewRelatedTypeStore(db)
	contentTypes := store.NewContentTypeStore(db)
	links := store.NewRelatedContentStore(db)
	inlines := admin.NewInlineRegistry(admin.NewFactory(types, contentTypes, settings), options)

	return &testEnv{
		DB:           db,
		Valkey:       vk,
		Renderer:     renderer,
		Sessions:     sessions,
		UserStore:    userStore,
		Types:        types,
		ContentTypes: contentTypes,
		Links:        links,
		Inlines:      inlines,
		Admin:        NewAdmin(renderer, sessions, types, contentTypes, links, inlines, devMode),
		Auth:         NewAuth(renderer, sessions, userStore),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
	}
}

// withChiURLParams adds chi URL parameters (key, value pairs) to a request.
func withChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParam adds a single chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	return withChiURLParams(r, key, value)
}

// createTestUser inserts a user with password "secret" and removes it when
// the test finishes.
func createTestUser(t *testing.T, env *testEnv, role models.Role) *models.User {
	t.Helper()
	email := "handler-" + uuid.New().String()[:8] + "@test.local"
	u, err := env.UserStore.Create(context.Background(), email, "secret", "Test User", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { env.UserStore.Delete(context.Background(), u.ID) })
	return u
}

// createTestRelatedType inserts a related type with a unique title and
// removes it, with its links, when the test finishes.
func createTestRelatedType(t *testing.T, env *testEnv, prefix string) *models.RelatedType {
	t.Helper()
	title := prefix + "-" + uuid.New().String()[:8]
	rt, err := env.Types.Create(context.Background(), title)
	if err != nil {
		t.Fatalf("create related type: %v", err)
	}
	t.Cleanup(func() { cleanRelatedTypes(t, env.DB, rt.Title) })
	return rt
}

// cleanRelatedTypes removes related types and their links by title.
func cleanRelatedTypes(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec(`DELETE FROM related_content WHERE related_type_id IN
			(SELECT id FROM related_types WHERE title = $1)`, title)
		db.Exec("DELETE FROM related_types WHERE title = $1", title)
	}
}

// createTestObject inserts a row into the table of the named model and
// returns its content type and ID.
func createTestObject(t *testing.T, env *testEnv, model, title string) (*models.ContentType, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	ct, err := env.ContentTypes.FindByModel(ctx, model)
	if err != nil || ct == nil {
		t.Fatalf("content type %q not found: %v", model, err)
	}

	var id uuid.UUID
	if err := env.DB.QueryRow(`INSERT INTO `+ct.TableName+` (title) VALUES ($1) RETURNING id`, title).Scan(&id); err != nil {
		t.Fatalf("insert %s: %v", model, err)
	}
	t.Cleanup(func() {
		env.DB.Exec(`DELETE FROM related_content WHERE (source_type_id = $1 AND source_id = $2)
			OR (destination_type_id = $1 AND destination_id = $2)`, ct.ID, id)
		env.DB.Exec(`DELETE FROM `+ct.TableName+` WHERE id = $1`, id)
	})
	return ct, id
}
