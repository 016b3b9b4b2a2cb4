package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/config"
	"github.com/fahroox/attendance/internal/database"
	"github.com/fahroox/attendance/internal/migrations"
)

// Near the seeded HQ studio (40.7128, -74.0060).
const (
	hqLat = 40.7128
	hqLon = -74.0060
)

func testConfig() *config.Config {
	return &config.Config{
		MatchRadiusM:         500,
		LocationHighAccuracy: true,
		LocationTimeout:      10 * time.Second,
		LocationMaxAge:       5 * time.Minute,
		AutoDetectDelay:      time.Millisecond,
		GateFallbackTimeout:  3 * time.Second,
	}
}

// setupTestServer builds a fully-routed server backed by an in-memory
// database seeded with an admin, a team member, and two studios.
func setupTestServer(t *testing.T) (*chi.Mux, *SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := NewSQLiteStore(db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.MinCost)
	if _, err := store.CreateUser(ctx, "admin@studio.local", string(hash), "Admin", attendance.RoleAdmin); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	hash, _ = bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if _, err := store.CreateUser(ctx, "dev@studio.local", string(hash), "Dev", attendance.RoleTeam); err != nil {
		t.Fatalf("seeding team member: %v", err)
	}

	lat, lon := hqLat, hqLon
	if _, err := store.CreateStudio(ctx, attendance.Studio{Name: "HQ", Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("seeding studio: %v", err)
	}
	farLat, farLon := 34.0522, -118.2437
	if _, err := store.CreateStudio(ctx, attendance.Studio{Name: "West Annex", Latitude: &farLat, Longitude: &farLon}); err != nil {
		t.Fatalf("seeding studio: %v", err)
	}

	cfg := testConfig()
	logger := slog.New(slog.DiscardHandler)
	broker := NewBroker()
	sessions := NewRegistry(cfg, logger, store, broker)
	t.Cleanup(sessions.Close)

	r := chi.NewRouter()
	addRoutes(r, logger, cfg, db, store, sessions, broker)
	return r, store
}

// login authenticates and returns the session cookies.
func login(t *testing.T, r http.Handler, email, password string) []*http.Cookie {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

// doJSON runs an authenticated request with an optional JSON body.
func doJSON(t *testing.T, r http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// reportLocation posts a device fix and returns the settled state.
func reportLocation(t *testing.T, r http.Handler, cookies []*http.Cookie, lat, lon float64) LocationStateResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/location/report", LocationReportRequest{
		Latitude:  &lat,
		Longitude: &lon,
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("report: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var st LocationStateResponse
	json.NewDecoder(w.Body).Decode(&st)
	return st
}
