// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterVoterRequest: address
  - RegisterProposalRequest: description
  - VoteRequest: proposal_id
  - SetDeadlineRequest: duration_seconds

# Response Types

Types for JSON responses:

  - RegisterVoterResponse: address, principal_key
  - PhaseResponse: phase, phase_name, phase_label
  - TallyResponse: phase fields plus winning_proposal_id, description
  - RegisterProposalResponse: proposal_id
  - VoteResponse: proposal_id, message
  - VetoResponse: proposal_id, vetoed
  - DeadlineResponse: deadline, deadline_in
  - ErrorResponse: error, message, code

# Domain Types

Read views of the election:

  - Election: phase, counts, vetoes, winner and deadline
  - Proposal / ProposalList: proposals with vote counts and veto flags
  - Voter: registration and ballot record
  - Winner: the tallied proposal
  - Event / EventList: journaled notifications

Phases are reported as their number (0 through 5), their name
("VotingSessionStarted") and a display label.
*/
package models
