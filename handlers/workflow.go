// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
)

// WorkflowHandler serves the administrator's commands.
type WorkflowHandler struct {
	election *election.Election
	cfg      cliparse.Config
	clock    election.Clock
}

func NewWorkflowHandler(e *election.Election, cfg cliparse.Config, clk election.Clock) *WorkflowHandler {
	return &WorkflowHandler{election: e, cfg: cfg, clock: clk}
}

// RegisterVoter handles POST /voters
// Returns the new voter's principal key; it is not shown again.
func (h *WorkflowHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	// An unparsable address goes to the election as the zero address, so the
	// caller and phase are still checked first.
	voter, parseErr := auth.ParseAddress(req.Address)

	if err := h.election.RegisterVoter(admin, voter); err != nil {
		if parseErr != nil && errors.Is(err, election.ErrInvalidInput) {
			badInput(w, "address must be a 0x-prefixed 20-byte hex address")
			return
		}
		writeElectionError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Address:      voter.Hex(),
		PrincipalKey: auth.GeneratePrincipalKey(voter, h.cfg.PrincipalKeySalt),
	})
}

// StartProposalsRegistration handles POST /workflow/proposals/start
func (h *WorkflowHandler) StartProposalsRegistration(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.election.StartProposalsRegistration)
}

// EndProposalsRegistration handles POST /workflow/proposals/end
func (h *WorkflowHandler) EndProposalsRegistration(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.election.EndProposalsRegistration)
}

// StartVotingSession handles POST /workflow/voting/start
func (h *WorkflowHandler) StartVotingSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.election.StartVotingSession)
}

// EndVotingSession handles POST /workflow/voting/end
func (h *WorkflowHandler) EndVotingSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.election.EndVotingSession)
}

func (h *WorkflowHandler) transition(w http.ResponseWriter, r *http.Request, command func(common.Address) error) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}
	if err := command(admin); err != nil {
		writeElectionError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, phaseResponse(h.election.Phase()))
}

// TallyVotes handles POST /workflow/tally
func (h *WorkflowHandler) TallyVotes(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}

	winner, err := h.election.TallyVotes(admin)
	if err != nil {
		writeElectionError(w, r, err)
		return
	}
	description, err := h.election.Winner()
	if err != nil {
		writeElectionError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		PhaseResponse:     phaseResponse(h.election.Phase()),
		WinningProposalID: winner,
		Description:       description,
	})
}

// SetWorkflowDeadline handles POST /workflow/deadline
func (h *WorkflowHandler) SetWorkflowDeadline(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.SetDeadlineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	// Missing or out of range durations are sent as negative so the election
	// rejects them after checking the caller.
	d := time.Duration(-1)
	if req.DurationSeconds != nil && *req.DurationSeconds <= math.MaxInt64/int64(time.Second) {
		d = time.Duration(*req.DurationSeconds) * time.Second
	}

	deadline, err := h.election.SetWorkflowDeadline(admin, d)
	if err != nil {
		if errors.Is(err, election.ErrInvalidInput) {
			badInput(w, "duration_seconds must be a non-negative number of seconds")
			return
		}
		writeElectionError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeadlineResponse{
		Deadline:   deadline,
		DeadlineIn: humanize.RelTime(deadline, h.clock.Now(), "ago", "from now"),
	})
}

// ProceedToNextStep handles POST /workflow/proceed
func (h *WorkflowHandler) ProceedToNextStep(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}

	phase, err := h.election.ProceedToNextStep(admin)
	if err != nil {
		writeElectionError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, phaseResponse(phase))
}

// VetoProposal handles POST /proposals/{id}/veto
func (h *WorkflowHandler) VetoProposal(w http.ResponseWriter, r *http.Request) {
	admin, ok := caller(w, r)
	if !ok {
		return
	}
	id := proposalID(r)

	if err := h.election.VetoProposal(admin, id); err != nil {
		writeElectionError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VetoResponse{ProposalID: id, Vetoed: true})
}
