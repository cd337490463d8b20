// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized        = errors.New("caller is not authorized")
	ErrInvalidPhase        = errors.New("invalid workflow status")
	ErrAlreadyRegistered   = errors.New("voter already registered")
	ErrAlreadyVoted        = errors.New("voter has already voted")
	ErrAlreadyVetoed       = errors.New("proposal already vetoed")
	ErrInvalidProposal     = errors.New("invalid proposal")
	ErrNotARegisteredVoter = fmt.Errorf("%w: not a registered voter", ErrUnauthorized)
	ErrNotTalliedYet       = errors.New("votes have not been tallied yet")
	ErrDeadlineNotReached  = errors.New("deadline not reached")
	ErrNoEligibleProposals = errors.New("no eligible proposals")
	ErrInvalidInput        = errors.New("invalid input")

	// ErrNotificationFailed is returned when an observer rejects a command's
	// notification. The command is not applied.
	ErrNotificationFailed = errors.New("notification failed")

	// ErrJournalMismatch is returned by Restore when a recorded notification
	// cannot be reproduced by the engine.
	ErrJournalMismatch = errors.New("journal does not match election state")
)

// codes is checked in order; ErrNotARegisteredVoter must precede
// ErrUnauthorized since it wraps it.
var codes = []struct {
	err  error
	code string
}{
	{ErrNotARegisteredVoter, "not_a_registered_voter"},
	{ErrUnauthorized, "unauthorized"},
	{ErrInvalidPhase, "invalid_phase"},
	{ErrAlreadyRegistered, "already_registered"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrAlreadyVetoed, "already_vetoed"},
	{ErrInvalidProposal, "invalid_proposal"},
	{ErrNotTalliedYet, "not_tallied_yet"},
	{ErrDeadlineNotReached, "deadline_not_reached"},
	{ErrNoEligibleProposals, "no_eligible_proposals"},
	{ErrInvalidInput, "invalid_input"},
	{ErrNotificationFailed, "notification_failed"},
	{ErrJournalMismatch, "journal_mismatch"},
}

// Code returns the stable kind of an engine error, or "" if err is not one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

func phaseError(command string, want, got Phase) error {
	return fmt.Errorf("%w: %s requires %s, current phase is %s", ErrInvalidPhase, command, want, got)
}

func proposalError(index, count int) error {
	return fmt.Errorf("%w: index %d, %d proposals registered", ErrInvalidProposal, index, count)
}
