// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

// VotingHandler serves the commands of registered voters.
type VotingHandler struct {
	election *election.Election
}

func NewVotingHandler(e *election.Election) *VotingHandler {
	return &VotingHandler{election: e}
}

// RegisterProposal handles POST /proposals
func (h *VotingHandler) RegisterProposal(w http.ResponseWriter, r *http.Request) {
	voter, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.RegisterProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	id, err := h.election.RegisterProposal(voter, req.Description)
	if err != nil {
		writeElectionError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.RegisterProposalResponse{ProposalID: id})
}

// Vote handles POST /votes
// A vote is final: there is no update or retraction.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	voter, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	// A missing proposal_id is an invalid proposal
	id := -1
	if req.ProposalID != nil {
		id = *req.ProposalID
	}

	if err := h.election.Vote(voter, id); err != nil {
		writeElectionError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		ProposalID: id,
		Message:    "Vote recorded",
	})
}
