// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Restore rebuilds an election from notifications previously delivered to an
// observer, in sequence order. Each event is replayed through the same
// guarded command that produced it, so a journal that could not have been
// produced by this election fails with ErrJournalMismatch. That includes a
// journal recorded under a different administrator. Observers passed in opts
// are not called for replayed events, and replayed events keep their
// recorded time.
func Restore(admin common.Address, events []Event, opts ...Option) (*Election, error) {
	e := New(admin, opts...)
	e.replaying = true
	defer func() { e.replaying = false }()

	for _, ev := range events {
		if ev.Sequence != e.sequence+1 {
			return nil, fmt.Errorf("%w: expected sequence %d, got %d", ErrJournalMismatch, e.sequence+1, ev.Sequence)
		}
		if ev.Administrator != admin {
			return nil, fmt.Errorf("%w: event %d recorded under administrator %s, not %s",
				ErrJournalMismatch, ev.Sequence, ev.Administrator.Hex(), admin.Hex())
		}
		e.replayAt = ev.At
		if err := e.replay(ev); err != nil {
			return nil, fmt.Errorf("%w: event %d (%s): %w", ErrJournalMismatch, ev.Sequence, ev.Kind, err)
		}
	}

	if len(events) > 0 {
		e.logger.Info("election restored",
			"events", len(events),
			"phase", e.Phase().String(),
			"voters", e.VoterCount(),
			"proposals", e.ProposalCount(),
		)
	}
	return e, nil
}

func (e *Election) replay(ev Event) error {
	switch ev.Kind {
	case EventVoterRegistered:
		return e.RegisterVoter(e.administrator, ev.Principal)

	case EventProposalRegistered:
		index, err := e.RegisterProposal(ev.Principal, ev.Description)
		if err != nil {
			return err
		}
		if index != ev.ProposalIndex {
			return fmt.Errorf("proposal registered at index %d, recorded as %d", index, ev.ProposalIndex)
		}
		return nil

	case EventVoted:
		return e.Vote(ev.Principal, ev.ProposalIndex)

	case EventProposalVetoed:
		return e.VetoProposal(e.administrator, ev.ProposalIndex)

	case EventDeadlineSet:
		e.mu.Lock()
		defer e.mu.Unlock()
		if err := e.emit(ev); err != nil {
			return err
		}
		e.deadline = ev.Deadline
		e.hasDeadline = true
		return nil

	case EventPhaseChanged:
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.phase != ev.PreviousPhase {
			return fmt.Errorf("recorded transition from %s, current phase is %s", ev.PreviousPhase, e.phase)
		}
		if err := e.advance(); err != nil {
			return err
		}
		if e.phase != ev.NewPhase {
			return fmt.Errorf("recorded transition to %s, reached %s", ev.NewPhase, e.phase)
		}
		return nil

	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
