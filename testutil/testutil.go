// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/ethereum/go-ethereum/common"
)

// Admin is the administrator of test elections
var Admin = common.HexToAddress("0x00000000000000000000000000000000000000Ad")

// Outsider is a principal that is never registered
var Outsider = common.HexToAddress("0x00000000000000000000000000000000000000fF")

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
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
		Port:             3318,
		DatabaseURL:      "test.db",
		DatabaseType:     db.TypeSQLite,
		AdminAddress:     Admin,
		PrincipalKeySalt: "test-principal-salt",
		NTPInterval:      time.Minute,
		LogLevel:         slog.LevelInfo,
	}
}

// Clock is a manually advanced clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Env bundles everything a handler test needs
type Env struct {
	DB       *sql.DB
	Config   cliparse.Config
	Clock    *Clock
	Journal  *db.Journal
	Election *election.Election
}

// NewEnv creates an election journaled to a fresh test database
func NewEnv(t *testing.T) *Env {
	t.Helper()

	conn := SetupTestDB(t)
	cfg := GetTestConfig()
	clk := NewClock()
	logger := slog.New(slog.DiscardHandler)
	journal := db.NewJournal(conn, db.TypeSQLite, logger)

	e := election.New(cfg.AdminAddress,
		election.WithObserver(journal.Record),
		election.WithClock(clk),
		election.WithLogger(logger),
	)

	return &Env{DB: conn, Config: cfg, Clock: clk, Journal: journal, Election: e}
}

// Voter returns the address of the i-th test voter
func Voter(i int) common.Address {
	return common.HexToAddress(fmt.Sprintf("0x%040x", 0x1000+i))
}

// Headers returns the identity headers for addr
func Headers(cfg cliparse.Config, addr common.Address) map[string]string {
	return map[string]string{
		middleware.PrincipalHeader:    addr.Hex(),
		middleware.PrincipalKeyHeader: auth.GeneratePrincipalKey(addr, cfg.PrincipalKeySalt),
	}
}

// RegisterVoters registers n test voters directly on the election
func (env *Env) RegisterVoters(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := env.Election.RegisterVoter(Admin, Voter(i)); err != nil {
			t.Fatalf("Failed to register voter %d: %v", i, err)
		}
	}
}

// OpenVoting registers n voters, one proposal each ("P0", "P1", ...), and
// starts the voting session
func (env *Env) OpenVoting(t *testing.T, n int) {
	t.Helper()
	e := env.Election
	env.RegisterVoters(t, n)
	if err := e.StartProposalsRegistration(Admin); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if _, err := e.RegisterProposal(Voter(i), fmt.Sprintf("P%d", i)); err != nil {
			t.Fatalf("Failed to register proposal %d: %v", i, err)
		}
	}
	if err := e.EndProposalsRegistration(Admin); err != nil {
		t.Fatal(err)
	}
	if err := e.StartVotingSession(Admin); err != nil {
		t.Fatal(err)
	}
}

// Authenticated wraps h with the principal middleware configured for cfg
func Authenticated(cfg cliparse.Config, h http.HandlerFunc) http.HandlerFunc {
	return middleware.WithPrincipal(cfg.PrincipalKeySalt, h)
}

// Do sends req to h and returns the recorded response
func Do(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
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
