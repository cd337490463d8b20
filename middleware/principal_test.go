// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/ethereum/go-ethereum/common"
)

func TestWithPrincipal(t *testing.T) {
	const salt = "test-salt"
	addr := common.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7")
	key := auth.GeneratePrincipalKey(addr, salt)

	testCases := []struct {
		name       string
		principal  string
		key        string
		wantStatus int
	}{
		{"valid", addr.Hex(), key, http.StatusOK},
		{"lowercase address", "0x52908400098527886e0f7030069857d2e4169ee7", key, http.StatusOK},
		{"missing headers", "", "", http.StatusUnauthorized},
		{"missing key", addr.Hex(), "", http.StatusUnauthorized},
		{"invalid address", "alice", key, http.StatusUnauthorized},
		{"wrong key", addr.Hex(), "wrong", http.StatusUnauthorized},
		{"key of another principal", "0x00000000000000000000000000000000000000aa", key, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got common.Address
			var ok bool
			handler := WithPrincipal(salt, func(w http.ResponseWriter, r *http.Request) {
				got, ok = PrincipalFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/votes", nil)
			if tc.principal != "" {
				req.Header.Set(PrincipalHeader, tc.principal)
			}
			if tc.key != "" {
				req.Header.Set(PrincipalKeyHeader, tc.key)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus == http.StatusOK && (!ok || got != addr) {
				t.Errorf("Expected principal %s in context, got %s (ok=%v)", addr.Hex(), got.Hex(), ok)
			}
		})
	}
}

func TestPrincipalFrom_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := PrincipalFrom(req.Context()); ok {
		t.Error("Expected no principal in a bare context")
	}
}
