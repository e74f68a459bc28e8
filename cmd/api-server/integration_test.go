package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/protomem/oncall/internal/database"
	"github.com/protomem/oncall/internal/token"
)

// TestAPIIntegration exercises the full request flow against a live
// Postgres instance: bootstrap admin login, user creation, role
// enforcement, assignment lifecycle, and resolution endpoints.
func TestAPIIntegration(t *testing.T) {
	if os.Getenv("RUN_API_INTEGRATION") != "true" {
		t.Skip("set RUN_API_INTEGRATION=true to run this integration test")
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Fatal("DB_DSN is required")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.New(logger, dsn, true)
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	var cfg config
	cfg.auth.secret = "integration-test-secret"
	cfg.auth.tokenTTL = time.Hour
	cfg.bootstrap.adminPassword = "admin123"

	app := &application{
		config:   cfg,
		db:       db,
		logger:   logger,
		tokens:   token.NewManager(cfg.auth.secret, cfg.auth.tokenTTL),
		location: time.UTC,
	}

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	ts := httptest.NewServer(app.routes())
	defer ts.Close()

	adminToken := login(t, ts, "admin", cfg.bootstrap.adminPassword)

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("responder_%d", suffix)
	email := fmt.Sprintf("%s@example.com", username)

	// Admin creates a regular responder.
	var created struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"username": username,
		"email":    email,
		"password": "responder-password",
		"isAdmin":  false,
	}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create user: got %d want %d", status, http.StatusCreated)
	}

	// Duplicate username conflicts.
	status = doJSON(t, ts, http.MethodPost, "/api/v1/users", adminToken, map[string]any{
		"username": username,
		"email":    fmt.Sprintf("other_%d@example.com", suffix),
		"password": "responder-password",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("duplicate user: got %d want %d", status, http.StatusConflict)
	}

	responderToken := login(t, ts, username, "responder-password")

	// Non-admin cannot mutate.
	status = doJSON(t, ts, http.MethodPost, "/api/v1/oncall", responderToken, map[string]any{
		"userId": created.User.ID,
		"start":  time.Now().Add(-time.Hour).Format(time.RFC3339),
		"end":    time.Now().Add(time.Hour).Format(time.RFC3339),
	}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("non-admin create assignment: got %d want %d", status, http.StatusForbidden)
	}

	// Inverted window rejected.
	status = doJSON(t, ts, http.MethodPost, "/api/v1/oncall", adminToken, map[string]any{
		"userId": created.User.ID,
		"start":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"end":    time.Now().Add(-time.Hour).Format(time.RFC3339),
	}, nil)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("inverted window: got %d want %d", status, http.StatusUnprocessableEntity)
	}

	// Unknown user rejected.
	status = doJSON(t, ts, http.MethodPost, "/api/v1/oncall", adminToken, map[string]any{
		"userId": 999_999_999,
		"start":  time.Now().Add(-time.Hour).Format(time.RFC3339),
		"end":    time.Now().Add(time.Hour).Format(time.RFC3339),
	}, nil)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("unknown user: got %d want %d", status, http.StatusUnprocessableEntity)
	}

	// Admin creates a live assignment.
	var createdAssignment struct {
		Assignment struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"assignment"`
	}
	status = doJSON(t, ts, http.MethodPost, "/api/v1/oncall", adminToken, map[string]any{
		"userId": created.User.ID,
		"start":  time.Now().Add(-time.Hour).Format(time.RFC3339),
		"end":    time.Now().Add(time.Hour).Format(time.RFC3339),
		"notes":  "integration test shift",
	}, &createdAssignment)
	if status != http.StatusCreated {
		t.Fatalf("create assignment: got %d want %d", status, http.StatusCreated)
	}
	if createdAssignment.Assignment.Status != "active" {
		t.Fatalf("new assignment status: got %q want %q", createdAssignment.Assignment.Status, "active")
	}

	// Resolution picks up the live assignment.
	var current struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/v1/oncall/current", responderToken, nil, &current)
	if status != http.StatusOK {
		t.Fatalf("current on-call: got %d want %d", status, http.StatusOK)
	}

	// The window intersects today.
	var today struct {
		Assignments []struct {
			ID uint `json:"id"`
		} `json:"assignments"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/v1/oncall/today", responderToken, nil, &today)
	if status != http.StatusOK {
		t.Fatalf("today on-call: got %d want %d", status, http.StatusOK)
	}

	// Non-admin cannot delete; admin can; repeat delete is 404.
	status = doJSON(t, ts, http.MethodDelete, fmt.Sprintf("/api/v1/oncall/%d", createdAssignment.Assignment.ID), responderToken, nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("non-admin delete: got %d want %d", status, http.StatusForbidden)
	}
	status = doJSON(t, ts, http.MethodDelete, fmt.Sprintf("/api/v1/oncall/%d", createdAssignment.Assignment.ID), adminToken, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("admin delete: got %d want %d", status, http.StatusNoContent)
	}
	status = doJSON(t, ts, http.MethodDelete, fmt.Sprintf("/api/v1/oncall/%d", createdAssignment.Assignment.ID), adminToken, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("repeat delete: got %d want %d", status, http.StatusNotFound)
	}
}

func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/v1/token", "", map[string]any{
		"username": username,
		"password": password,
	}, &resp)
	if status != http.StatusOK {
		t.Fatalf("login %s: got %d want %d", username, status, http.StatusOK)
	}
	if resp.AccessToken == "" {
		t.Fatalf("login %s: empty access token", username)
	}

	return resp.AccessToken
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, bearer string, body any, dst any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if dst != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}

	return resp.StatusCode
}
