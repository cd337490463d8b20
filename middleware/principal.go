// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/ethereum/go-ethereum/common"
)

const (
	PrincipalHeader    = "X-Principal"
	PrincipalKeyHeader = "X-Principal-Key"
)

type principalKey struct{}

// WithPrincipal authenticates the caller from the X-Principal and
// X-Principal-Key headers and stores the address in the request context.
// Requests without a valid pair are rejected with 401.
func WithPrincipal(salt string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(PrincipalHeader)
		key := r.Header.Get(PrincipalKeyHeader)
		if raw == "" || key == "" {
			ErrorResponse(w, http.StatusUnauthorized, "X-Principal and X-Principal-Key headers required")
			return
		}

		addr, err := auth.ParseAddress(raw)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid principal address")
			return
		}
		if err := auth.ValidatePrincipalKey(addr, key, salt); err != nil {
			slog.Warn("invalid principal key",
				"request_id", RequestID(r.Context()),
				"principal", addr.Hex(),
				"remote", GetClientIP(r),
			)
			ErrorResponse(w, http.StatusUnauthorized, "Invalid principal key")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, addr)))
	}
}

// PrincipalFrom returns the principal authenticated by WithPrincipal.
func PrincipalFrom(ctx context.Context) (common.Address, bool) {
	addr, ok := ctx.Value(principalKey{}).(common.Address)
	return addr, ok
}
