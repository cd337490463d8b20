// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/dustin/go-humanize"
)

const (
	defaultEventPage = 100
	maxEventPage     = 500
)

// ResultsHandler serves public reads of the election and its journal.
type ResultsHandler struct {
	election *election.Election
	journal  *db.Journal
	clock    election.Clock
}

func NewResultsHandler(e *election.Election, journal *db.Journal, clk election.Clock) *ResultsHandler {
	return &ResultsHandler{election: e, journal: journal, clock: clk}
}

// GetElection handles GET /election
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	s := h.election.Snapshot()
	p := phaseResponse(s.Phase)

	resp := models.Election{
		Administrator:   s.Administrator.Hex(),
		Phase:           p.Phase,
		PhaseName:       p.PhaseName,
		PhaseLabel:      p.PhaseLabel,
		VoterCount:      s.VoterCount,
		VotesCast:       s.VotesCast,
		ProposalCount:   len(s.Proposals),
		VetoedProposals: s.Vetoed,
		Sequence:        s.Sequence,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	if s.Tallied {
		winner := s.Winner
		resp.WinningProposalID = &winner
	}
	if s.HasDeadline {
		deadline := s.Deadline
		resp.Deadline = &deadline
		resp.DeadlineIn = humanize.RelTime(deadline, h.clock.Now(), "ago", "from now")
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ListProposals handles GET /proposals
func (h *ResultsHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	s := h.election.Snapshot()

	vetoed := make(map[int]bool, len(s.Vetoed))
	for _, i := range s.Vetoed {
		vetoed[i] = true
	}

	proposals := make([]models.Proposal, 0, len(s.Proposals))
	for i, p := range s.Proposals {
		proposals = append(proposals, models.Proposal{
			ID:          i,
			Description: p.Description,
			VoteCount:   p.VoteCount,
			Vetoed:      vetoed[i],
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalList{
		Count:     len(proposals),
		Proposals: proposals,
	})
}

// GetProposal handles GET /proposals/{id}
func (h *ResultsHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id := proposalID(r)

	p, err := h.election.Proposal(id)
	if errors.Is(err, election.ErrInvalidProposal) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, "Proposal not found", election.Code(err))
		return
	}
	if err != nil {
		writeElectionError(w, r, err)
		return
	}
	vetoed, err := h.election.IsVetoed(id)
	if err != nil {
		writeElectionError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Proposal{
		ID:          id,
		Description: p.Description,
		VoteCount:   p.VoteCount,
		Vetoed:      vetoed,
	})
}

// GetVoter handles GET /voters/{address}
// Unknown addresses are reported as not registered rather than 404.
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	addr, err := auth.ParseAddress(r.PathValue("address"))
	if err != nil {
		badInput(w, "address must be a 0x-prefixed 20-byte hex address")
		return
	}

	v, _ := h.election.Voter(addr)
	resp := models.Voter{
		Address:      addr.Hex(),
		IsRegistered: v.IsRegistered,
		HasVoted:     v.HasVoted,
	}
	if v.HasVoted {
		idx := v.VotedProposalIndex
		resp.VotedProposalID = &idx
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetWinner handles GET /winner
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	description, err := h.election.Winner()
	if err != nil {
		writeElectionError(w, r, err)
		return
	}
	idx, _ := h.election.WinningProposalIndex()
	p, err := h.election.Proposal(idx)
	if err != nil {
		writeElectionError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Winner{
		ProposalID:  idx,
		Description: description,
		VoteCount:   p.VoteCount,
	})
}

// ListEvents handles GET /events?after=N&limit=M
func (h *ResultsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var after uint64
	if s := q.Get("after"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			badInput(w, "after must be a non-negative integer")
			return
		}
		after = n
	}

	limit := defaultEventPage
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxEventPage {
			badInput(w, "limit must be between 1 and "+strconv.Itoa(maxEventPage))
			return
		}
		limit = n
	}

	entries, err := h.journal.List(r.Context(), after, limit)
	if err != nil {
		slog.Error("failed to list events", "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.EventList{Events: make([]models.Event, 0, len(entries)), Next: after}
	for _, e := range entries {
		resp.Events = append(resp.Events, eventResponse(e))
		resp.Next = e.Event.Sequence
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func eventResponse(e db.Entry) models.Event {
	ev := e.Event
	out := models.Event{
		ID:         e.ID,
		Sequence:   ev.Sequence,
		Kind:       string(ev.Kind),
		At:         ev.At,
		RecordedAt: e.RecordedAt,
	}

	idx := ev.ProposalIndex
	switch ev.Kind {
	case election.EventVoterRegistered:
		out.Principal = ev.Principal.Hex()
	case election.EventProposalRegistered:
		out.Principal = ev.Principal.Hex()
		out.ProposalID = &idx
		out.Description = ev.Description
	case election.EventVoted:
		out.Principal = ev.Principal.Hex()
		out.ProposalID = &idx
	case election.EventProposalVetoed:
		out.ProposalID = &idx
	case election.EventPhaseChanged:
		prev, next := int(ev.PreviousPhase), int(ev.NewPhase)
		out.PreviousPhase = &prev
		out.NewPhase = &next
	case election.EventDeadlineSet:
		deadline := ev.Deadline
		out.Deadline = &deadline
	}
	return out
}
