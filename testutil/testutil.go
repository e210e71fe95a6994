// Copyright (c) 2025 The reside Authors.
// Use of this source code is governed by the MIT License. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gisele-123/reside/auth"
	"github.com/Gisele-123/reside/canister"
	"github.com/Gisele-123/reside/cliparse"
	"github.com/Gisele-123/reside/db"
	"github.com/Gisele-123/reside/models"
)

// BuilderID is the builder principal of residences created by CreateTestResidence
const BuilderID = "builder-principal"

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, db.SQLiteDSN(filepath.Join(t.TempDir(), "reside.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file::memory:",
		DatabaseType:  db.TypeSQLite,
		PrincipalSalt: "test-principal-salt",
		AllowSelfVote: true,
		TieBreak:      "lowest-number",
	}
}

// SetupTestCanister opens a canister over a fresh test database
func SetupTestCanister(t *testing.T, cfg cliparse.Config) *canister.Canister {
	t.Helper()

	opts, err := cfg.ElectionOptions()
	if err != nil {
		t.Fatalf("Invalid election settings: %v", err)
	}
	c, err := canister.New(context.Background(), db.NewStore(SetupTestDB(t)), opts)
	if err != nil {
		t.Fatalf("Failed to create canister: %v", err)
	}
	c.SetClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	return c
}

// Owner returns the owner principal of apartment n in test residences
func Owner(n uint32) string {
	return fmt.Sprintf("owner-%d", n)
}

// CreateTestResidence initializes a residence and registers apartments
// 1..apartments, each owned by Owner(n)
func CreateTestResidence(t *testing.T, c *canister.Canister, apartments uint32) models.Residence {
	t.Helper()
	ctx := context.Background()

	info, err := c.InitializeResidence(ctx, models.Residence{
		Name:            "Test Residence",
		ApartmentsCount: apartments,
		Builder:         models.Builder{ID: BuilderID, Name: "Test Builder"},
		MaintenanceExpenses: []models.MaintenanceExpense{
			{Name: "Cleaning", Amount: 1200},
			{Name: "Elevator", Amount: 350.5},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create test residence: %v", err)
	}

	for n := uint32(1); n <= apartments; n++ {
		apt := models.Apartment{Number: n, Name: fmt.Sprintf("Apartment %d", n), Owner: Owner(n)}
		if _, err := c.AddApartment(ctx, BuilderID, apt); err != nil {
			t.Fatalf("Failed to add test apartment %d: %v", n, err)
		}
	}
	return info
}

// ApplyTestCandidate files a council application for apartment n
func ApplyTestCandidate(t *testing.T, c *canister.Canister, n uint32, role models.CouncilRole) {
	t.Helper()
	if _, err := c.ApplyForCouncil(context.Background(), n, role, Owner(n)); err != nil {
		t.Fatalf("Failed to apply apartment %d for %s: %v", n, role, err)
	}
}

// PrincipalHeaders returns signed identity headers for principal
func PrincipalHeaders(principal string, cfg cliparse.Config) map[string]string {
	return map[string]string{
		auth.PrincipalHeader: principal,
		auth.SignatureHeader: auth.SignPrincipal(principal, cfg.PrincipalSalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
