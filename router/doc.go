// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(e, journal, cfg, clk)

# Endpoints

Health:

	GET /health

Workflow (administrator, requires X-Principal and X-Principal-Key):

	POST /voters                   - Register voter
	POST /workflow/proposals/start - Open proposal registration
	POST /workflow/proposals/end   - Close proposal registration
	POST /workflow/voting/start    - Open voting
	POST /workflow/voting/end      - Close voting
	POST /workflow/tally           - Tally votes
	POST /workflow/deadline        - Set workflow deadline
	POST /workflow/proceed         - Step forward after the deadline
	POST /proposals/{id}/veto      - Veto proposal

Voting (registered voters, same headers):

	POST /proposals - Register proposal
	POST /votes     - Cast vote

Reads (public):

	GET /election          - Phase, counts, deadline
	GET /proposals         - All proposals
	GET /proposals/{id}    - One proposal
	GET /voters/{address}  - Voter record
	GET /winner            - Winning proposal (after tally)
	GET /events            - Event journal, paged with ?after= and ?limit=

Every route is logged by middleware.WithLogging. Commands are additionally
wrapped in middleware.WithPrincipal.
*/
package router
