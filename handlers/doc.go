// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct around the process's single election:

  - WorkflowHandler: Administrative commands (voters, phases, tally, deadline, veto)
  - VotingHandler: Proposal registration and voting
  - ResultsHandler: Public reads of the election and its event journal

Handlers are created via constructor functions:

	workflow := handlers.NewWorkflowHandler(e, cfg, clk)

# Workflow

The election moves one step at a time:

	POST /voters                    → RegisterVoter (returns principal_key)
	POST /workflow/proposals/start  → StartProposalsRegistration
	POST /workflow/proposals/end    → EndProposalsRegistration
	POST /workflow/voting/start     → StartVotingSession
	POST /workflow/voting/end       → EndVotingSession
	POST /workflow/tally            → TallyVotes
	POST /workflow/deadline         → SetWorkflowDeadline
	POST /workflow/proceed          → ProceedToNextStep
	POST /proposals/{id}/veto       → VetoProposal

# Voting

	POST /proposals → RegisterProposal
	POST /votes     → Vote

Commands require the X-Principal and X-Principal-Key headers, checked by
middleware.WithPrincipal before the handler runs.

# Errors

Election errors map to HTTP statuses by their code:

	unauthorized, not_a_registered_voter → 403
	invalid_input, invalid_proposal      → 400
	everything else                      → 409

The code is returned in the "code" field of the error body.
*/
package handlers
