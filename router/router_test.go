// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t)
	return NewRouter(env.Election, env.Journal, env.Config, env.Clock), env
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// Routes respond (handler is invoked). Commands without identity headers
	// return 401, which is valid handler behavior.
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Workflow
		{"POST", "/voters"},
		{"POST", "/workflow/proposals/start"},
		{"POST", "/workflow/proposals/end"},
		{"POST", "/workflow/voting/start"},
		{"POST", "/workflow/voting/end"},
		{"POST", "/workflow/tally"},
		{"POST", "/workflow/deadline"},
		{"POST", "/workflow/proceed"},
		{"POST", "/proposals/0/veto"},

		// Voting
		{"POST", "/proposals"},
		{"POST", "/votes"},

		// Reads
		{"GET", "/election"},
		{"GET", "/proposals"},
		{"GET", "/proposals/0"},
		{"GET", "/voters/0x0000000000000000000000000000000000001000"},
		{"GET", "/winner"},
		{"GET", "/events"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},     // Only GET is defined
		{"DELETE", "/election"}, // Only GET is defined
		{"PUT", "/votes"},       // Only POST is defined
		{"GET", "/workflow/tally"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, env := newTestRouter(t)
	env.OpenVoting(t, 2)

	t.Run("proposal ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/proposals/1", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"description":"P1"`) {
			t.Errorf("Expected proposal P1, got %s", w.Body.String())
		}
	})

	t.Run("voter address extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/voters/"+testutil.Voter(0).Hex(), nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"is_registered":true`) {
			t.Errorf("Expected registered voter, got %s", w.Body.String())
		}
	})
}

func TestCommandsRequirePrincipal(t *testing.T) {
	mux, env := newTestRouter(t)

	t.Run("missing headers", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/workflow/proposals/start", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Error("Expected request id header on rejected request")
		}
	})

	t.Run("admin headers", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/workflow/proposals/start", nil, testutil.Headers(env.Config, testutil.Admin))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("voter on admin route", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/workflow/proposals/end", nil, testutil.Headers(env.Config, testutil.Voter(0)))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}
