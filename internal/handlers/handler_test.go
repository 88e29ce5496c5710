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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"superguide/internal/cache"
	"superguide/internal/database"
	"superguide/internal/export"
	"superguide/internal/guide"
	"superguide/internal/middleware"
	"superguide/internal/models"
	"superguide/internal/session"
	"superguide/internal/store"
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
	user := envOr("POSTGRES_USER", "superguide")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_TEST_DB", "superguide_test")
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
		// Clean up test session, guide, and cache keys.
		for _, pattern := range []string{"session:*", "guide:*", "dir:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Resources   *store.ResourceStore
	Categories  *store.CategoryStore
	Reports     *store.ReportStore
	Users       *store.UserStore
	ErrorEvents *store.ErrorEventStore
	DirCache    *cache.DirectoryCache
	GuideSvc    *guide.Service
	Public      *Public
	Guide       *Guide
	Auth        *Auth
	Admin       *Admin
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	resources := store.NewResourceStore(db)
	categories := store.NewCategoryStore(db)
	reports := store.NewReportStore(db)
	users := store.NewUserStore(db)
	errorEvents := store.NewErrorEventStore(db)
	dirCache := cache.NewDirectoryCache(vk, 1*time.Minute)
	guideSvc := guide.NewService(guide.NewValkeyStore(vk), resources)

	// Each test starts from empty tables.
	for _, table := range []string{"reports", "resources", "categories", "error_events", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}
	dirCache.InvalidateAll(context.Background())

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		Resources:   resources,
		Categories:  categories,
		Reports:     reports,
		Users:       users,
		ErrorEvents: errorEvents,
		DirCache:    dirCache,
		GuideSvc:    guideSvc,
		Public:      NewPublic(resources, categories, errorEvents, dirCache),
		Guide:       NewGuide(guideSvc, export.NewPDFRenderer()),
		Auth:        NewAuth(sessions, users),
		Admin:       NewAdmin(resources, categories, reports, users, errorEvents, dirCache),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, role models.Role, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedResource inserts a resource with sensible defaults for tests.
func seedResource(t *testing.T, env *testEnv, name, category string) *models.Resource {
	t.Helper()
	desc := "Test resource " + name
	created, err := env.Resources.Create(&models.Resource{
		Name:                 name,
		Category:             category,
		CityDirection:        "Minneapolis",
		RecoveryStage:        []string{models.StageCrisis},
		TransitAccessibility: "On Major Bus Line",
		Walkability:          "Walkable ≤ 15 minutes",
		SnapAccepted:         "N/A",
		Cost:                 "Free",
		Description:          &desc,
		Status:               models.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	return created
}
