// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func newResultsHandler(env *testutil.Env) *ResultsHandler {
	return NewResultsHandler(env.Election, env.Journal, env.Clock)
}

func TestGetElection(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)
	env.OpenVoting(t, 3)

	e := env.Election
	if err := e.Vote(testutil.Voter(0), 2); err != nil {
		t.Fatal(err)
	}
	if err := e.VetoProposal(testutil.Admin, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SetWorkflowDeadline(testutil.Admin, 90*time.Minute); err != nil {
		t.Fatal(err)
	}

	w := testutil.Do(handler.GetElection, testutil.MakeRequest("GET", "/election", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Election
	testutil.AssertJSON(t, w, &resp)

	if resp.Administrator != testutil.Admin.Hex() {
		t.Errorf("Expected administrator %s, got %s", testutil.Admin.Hex(), resp.Administrator)
	}
	if resp.Phase != int(election.VotingSessionStarted) || resp.PhaseName != "VotingSessionStarted" {
		t.Errorf("Unexpected phase %d %s", resp.Phase, resp.PhaseName)
	}
	if resp.PhaseLabel != election.VotingSessionStarted.Label() {
		t.Errorf("Unexpected phase label %q", resp.PhaseLabel)
	}
	if resp.VoterCount != 3 || resp.VotesCast != 1 || resp.ProposalCount != 3 {
		t.Errorf("Unexpected counts: voters=%d votes=%d proposals=%d", resp.VoterCount, resp.VotesCast, resp.ProposalCount)
	}
	if len(resp.VetoedProposals) != 1 || resp.VetoedProposals[0] != 1 {
		t.Errorf("Expected vetoed [1], got %v", resp.VetoedProposals)
	}
	if resp.WinningProposalID != nil {
		t.Errorf("Expected no winner before tally, got %d", *resp.WinningProposalID)
	}
	if resp.Deadline == nil || !resp.Deadline.Equal(env.Clock.Now().Add(90*time.Minute)) {
		t.Errorf("Unexpected deadline %v", resp.Deadline)
	}
	if resp.DeadlineIn != "1 hour from now" {
		t.Errorf("Expected '1 hour from now', got %q", resp.DeadlineIn)
	}
	if resp.Sequence == 0 {
		t.Error("Expected non-zero sequence")
	}
	if resp.UpdatedAt == nil || !resp.UpdatedAt.Equal(env.Clock.Now()) {
		t.Errorf("Expected updated_at %v, got %v", env.Clock.Now(), resp.UpdatedAt)
	}
}

func TestGetElection_Fresh(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)

	w := testutil.Do(handler.GetElection, testutil.MakeRequest("GET", "/election", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	if strings.Contains(body, "deadline") || strings.Contains(body, "winning_proposal_id") {
		t.Errorf("Expected no deadline or winner fields, got %s", body)
	}
	if !strings.Contains(body, `"vetoed_proposals":[]`) {
		t.Errorf("Expected empty vetoed_proposals array, got %s", body)
	}
}

func TestListProposals(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)

	// Empty list
	w := testutil.Do(handler.ListProposals, testutil.MakeRequest("GET", "/proposals", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var empty models.ProposalList
	testutil.AssertJSON(t, w, &empty)
	if empty.Count != 0 || empty.Proposals == nil {
		t.Errorf("Expected empty non-nil list, got %+v", empty)
	}

	env.OpenVoting(t, 3)
	if err := env.Election.Vote(testutil.Voter(0), 2); err != nil {
		t.Fatal(err)
	}
	if err := env.Election.VetoProposal(testutil.Admin, 0); err != nil {
		t.Fatal(err)
	}

	w = testutil.Do(handler.ListProposals, testutil.MakeRequest("GET", "/proposals", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProposalList
	testutil.AssertJSON(t, w, &resp)
	if resp.Count != 3 || len(resp.Proposals) != 3 {
		t.Fatalf("Expected 3 proposals, got %d", resp.Count)
	}
	for i, p := range resp.Proposals {
		if p.ID != i || p.Description != fmt.Sprintf("P%d", i) {
			t.Errorf("Unexpected proposal %d: %+v", i, p)
		}
	}
	if !resp.Proposals[0].Vetoed || resp.Proposals[1].Vetoed {
		t.Error("Unexpected veto flags")
	}
	if resp.Proposals[2].VoteCount != 1 {
		t.Errorf("Expected 1 vote for proposal 2, got %d", resp.Proposals[2].VoteCount)
	}
}

func TestGetProposal(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)
	env.OpenVoting(t, 2)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"first", "0", http.StatusOK},
		{"second", "1", http.StatusOK},
		{"missing", "2", http.StatusNotFound},
		{"negative", "-1", http.StatusNotFound},
		{"not a number", "abc", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/proposals/"+tt.id, nil, nil)
			req.SetPathValue("id", tt.id)
			w := testutil.Do(handler.GetProposal, req)
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusNotFound {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Code != "invalid_proposal" {
					t.Errorf("Expected invalid_proposal, got %q", resp.Code)
				}
			}
		})
	}
}

func TestGetVoter(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)
	env.OpenVoting(t, 2)
	if err := env.Election.Vote(testutil.Voter(1), 0); err != nil {
		t.Fatal(err)
	}

	get := func(addr string) *http.Request {
		req := testutil.MakeRequest("GET", "/voters/"+addr, nil, nil)
		req.SetPathValue("address", addr)
		return req
	}

	t.Run("registered, not voted", func(t *testing.T) {
		w := testutil.Do(handler.GetVoter, get(testutil.Voter(0).Hex()))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.Voter
		testutil.AssertJSON(t, w, &resp)
		if !resp.IsRegistered || resp.HasVoted || resp.VotedProposalID != nil {
			t.Errorf("Unexpected voter %+v", resp)
		}
	})

	t.Run("voted for proposal zero", func(t *testing.T) {
		w := testutil.Do(handler.GetVoter, get(strings.ToLower(testutil.Voter(1).Hex())))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.Voter
		testutil.AssertJSON(t, w, &resp)
		if !resp.HasVoted || resp.VotedProposalID == nil || *resp.VotedProposalID != 0 {
			t.Errorf("Unexpected voter %+v", resp)
		}
		if resp.Address != testutil.Voter(1).Hex() {
			t.Errorf("Expected checksummed address, got %s", resp.Address)
		}
	})

	t.Run("unknown principal", func(t *testing.T) {
		w := testutil.Do(handler.GetVoter, get(testutil.Outsider.Hex()))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.Voter
		testutil.AssertJSON(t, w, &resp)
		if resp.IsRegistered || resp.HasVoted {
			t.Errorf("Unexpected voter %+v", resp)
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		w := testutil.Do(handler.GetVoter, get("carol"))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetWinner(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)
	env.OpenVoting(t, 3)

	w := testutil.Do(handler.GetWinner, testutil.MakeRequest("GET", "/winner", nil, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Code != "not_tallied_yet" {
		t.Errorf("Expected not_tallied_yet, got %q", errResp.Code)
	}

	e := env.Election
	for voter, proposal := range []int{1, 1, 0} {
		if err := e.Vote(testutil.Voter(voter), proposal); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.EndVotingSession(testutil.Admin); err != nil {
		t.Fatal(err)
	}
	if _, err := e.TallyVotes(testutil.Admin); err != nil {
		t.Fatal(err)
	}

	w = testutil.Do(handler.GetWinner, testutil.MakeRequest("GET", "/winner", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Winner
	testutil.AssertJSON(t, w, &resp)
	if resp.ProposalID != 1 || resp.Description != "P1" || resp.VoteCount != 2 {
		t.Errorf("Unexpected winner %+v", resp)
	}
}

func TestListEvents(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)
	env.OpenVoting(t, 1)
	if err := env.Election.Vote(testutil.Voter(0), 0); err != nil {
		t.Fatal(err)
	}

	// voter_registered, phase_changed, proposal_registered, phase_changed x2, voted
	w := testutil.Do(handler.ListEvents, testutil.MakeRequest("GET", "/events", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.EventList
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Events) != 6 {
		t.Fatalf("Expected 6 events, got %d", len(resp.Events))
	}
	if resp.Next != 6 {
		t.Errorf("Expected next 6, got %d", resp.Next)
	}

	first := resp.Events[0]
	if first.Kind != "voter_registered" || first.Principal != testutil.Voter(0).Hex() || first.ID == "" {
		t.Errorf("Unexpected first event %+v", first)
	}
	if first.ProposalID != nil || first.NewPhase != nil {
		t.Errorf("Expected only principal on voter_registered, got %+v", first)
	}

	phase := resp.Events[1]
	if phase.Kind != "phase_changed" || phase.PreviousPhase == nil || *phase.PreviousPhase != 0 || *phase.NewPhase != 1 {
		t.Errorf("Unexpected phase event %+v", phase)
	}

	voted := resp.Events[5]
	if voted.Kind != "voted" || voted.ProposalID == nil || *voted.ProposalID != 0 {
		t.Errorf("Unexpected vote event %+v", voted)
	}

	// Paging
	w = testutil.Do(handler.ListEvents, testutil.MakeRequest("GET", "/events?after=4&limit=1", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var page models.EventList
	testutil.AssertJSON(t, w, &page)
	if len(page.Events) != 1 || page.Events[0].Sequence != 5 || page.Next != 5 {
		t.Errorf("Unexpected page %+v", page)
	}

	// Past the end keeps the cursor
	w = testutil.Do(handler.ListEvents, testutil.MakeRequest("GET", "/events?after=6", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var end models.EventList
	testutil.AssertJSON(t, w, &end)
	if len(end.Events) != 0 || end.Next != 6 {
		t.Errorf("Unexpected end page %+v", end)
	}
}

func TestListEvents_InvalidQuery(t *testing.T) {
	env := testutil.NewEnv(t)
	handler := newResultsHandler(env)

	for _, q := range []string{"after=-1", "after=x", "limit=0", "limit=501", "limit=abc"} {
		t.Run(q, func(t *testing.T) {
			w := testutil.Do(handler.ListEvents, testutil.MakeRequest("GET", "/events?"+q, nil, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}
