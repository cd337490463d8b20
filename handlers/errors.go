// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/ethereum/go-ethereum/common"
)

// statusFor maps an election error to its HTTP status.
func statusFor(err error) int {
	switch election.Code(err) {
	case "", "notification_failed":
		return http.StatusInternalServerError
	case "unauthorized", "not_a_registered_voter":
		return http.StatusForbidden
	case "invalid_input", "invalid_proposal":
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

// writeElectionError writes err with its status and stable code. Errors that
// are not election errors, and failed journal writes, are logged and hidden
// from the client.
func writeElectionError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("election command failed",
			"request_id", middleware.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.CodedErrorResponse(w, status, err.Error(), election.Code(err))
}

// badInput writes a 400 carrying the invalid_input code.
func badInput(w http.ResponseWriter, message string) {
	middleware.CodedErrorResponse(w, http.StatusBadRequest, message, election.Code(election.ErrInvalidInput))
}

// caller returns the principal set by middleware.WithPrincipal. Handlers
// mounted without it answer 401.
func caller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	addr, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Principal required")
	}
	return addr, ok
}

// proposalID parses the {id} path value. Anything that is not an integer
// becomes -1, which no proposal has.
func proposalID(r *http.Request) int {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return -1
	}
	return id
}

func phaseResponse(p election.Phase) models.PhaseResponse {
	return models.PhaseResponse{
		Phase:      int(p),
		PhaseName:  p.String(),
		PhaseLabel: p.Label(),
	}
}
