// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the single-election voting workflow.

An Election is created with an administrator and moves through six phases,
one step at a time:

	RegisteringVoters → ProposalsRegistrationStarted → ProposalsRegistrationEnded
	  → VotingSessionStarted → VotingSessionEnded → VotesTallied

# Commands

Every command takes the caller's principal and is checked in this order:

 1. authorization (ErrUnauthorized for administrative commands,
    ErrNotARegisteredVoter for voter commands)
 2. phase (ErrInvalidPhase)
 3. arguments (ErrInvalidInput, ErrInvalidProposal, ErrAlreadyVoted, ...)

A rejected command leaves the election unchanged and emits nothing.

	e := election.New(admin)
	_ = e.RegisterVoter(admin, alice)
	_ = e.StartProposalsRegistration(admin)
	idx, _ := e.RegisterProposal(alice, "Lunch at noon")

# Tally

TallyVotes selects the proposal with the strictly greatest vote count,
ignoring vetoed proposals. Ties go to the lowest index. If every proposal is
vetoed, or none exist, tallying fails with ErrNoEligibleProposals and the
election stays in VotingSessionEnded.

# Deadlines

SetWorkflowDeadline stores now + d using the election's Clock. Once the
deadline has passed, ProceedToNextStep performs the same transition as the
explicit command for the current phase, including the tally.

# Notifications

Successful commands emit an Event to each Observer, in command order, with
a strictly increasing Sequence and the election's administrator. Observers
run before the command is applied; an observer error rejects the command
with ErrNotificationFailed and nothing changes. Restore replays a recorded
event stream to rebuild an election after restart, and refuses a stream
recorded under a different administrator.

# Error Codes

Code maps an error to a stable string used in API responses:

	election.Code(err) // "already_voted"
*/
package election
