// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/middleware"
)

func NewRouter(e *election.Election, journal *db.Journal, cfg cliparse.Config, clk election.Clock) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	workflowHandler := handlers.NewWorkflowHandler(e, cfg, clk)
	votingHandler := handlers.NewVotingHandler(e)
	resultsHandler := handlers.NewResultsHandler(e, journal, clk)

	// command wraps a handler that needs an authenticated principal
	command := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithPrincipal(cfg.PrincipalKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Workflow (administrator)
	mux.HandleFunc("POST /voters", command(workflowHandler.RegisterVoter))
	mux.HandleFunc("POST /workflow/proposals/start", command(workflowHandler.StartProposalsRegistration))
	mux.HandleFunc("POST /workflow/proposals/end", command(workflowHandler.EndProposalsRegistration))
	mux.HandleFunc("POST /workflow/voting/start", command(workflowHandler.StartVotingSession))
	mux.HandleFunc("POST /workflow/voting/end", command(workflowHandler.EndVotingSession))
	mux.HandleFunc("POST /workflow/tally", command(workflowHandler.TallyVotes))
	mux.HandleFunc("POST /workflow/deadline", command(workflowHandler.SetWorkflowDeadline))
	mux.HandleFunc("POST /workflow/proceed", command(workflowHandler.ProceedToNextStep))
	mux.HandleFunc("POST /proposals/{id}/veto", command(workflowHandler.VetoProposal))

	// Voting (registered voters)
	mux.HandleFunc("POST /proposals", command(votingHandler.RegisterProposal))
	mux.HandleFunc("POST /votes", command(votingHandler.Vote))

	// Reads (public)
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetElection))
	mux.HandleFunc("GET /proposals", middleware.WithLogging(resultsHandler.ListProposals))
	mux.HandleFunc("GET /proposals/{id}", middleware.WithLogging(resultsHandler.GetProposal))
	mux.HandleFunc("GET /voters/{address}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /events", middleware.WithLogging(resultsHandler.ListEvents))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
