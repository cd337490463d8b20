// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Every request gets a UUID request id, reused from the
X-Request-Id header when the client sends a valid one and echoed back in the
response. Handlers read it with RequestID(r.Context()).

# Principal Authentication

Commands identify their caller with two headers:

	X-Principal:     0x52908400098527886E0F7030069857D2E4169EE7
	X-Principal-Key: <key issued for that address>

WithPrincipal validates the pair and rejects the request with 401 otherwise:

	mux.HandleFunc("POST /votes", middleware.WithPrincipal(salt, handler))

	caller, _ := middleware.PrincipalFrom(r.Context())

It only proves who the caller is; whether the caller may run the command is
decided by the election.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type, X-Principal,
X-Principal-Key, X-Request-Id.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, err.Error(), "already_voted")

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Logged with each request and with rejected principal keys.
*/
package middleware
