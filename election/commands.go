// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Every command checks, in order: the caller, the phase, then its arguments.
// Nothing is mutated until all checks pass and the observers have accepted
// the command's notification.

// RegisterVoter registers principal as a voter. Administrative, valid only
// while RegisteringVoters.
func (e *Election) RegisterVoter(caller, principal common.Address) error {
	const command = "registerVoter"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(command, caller); err != nil {
		return err
	}
	if e.phase != RegisteringVoters {
		return e.reject(command, caller, phaseError(command, RegisteringVoters, e.phase))
	}
	if principal == (common.Address{}) {
		return e.reject(command, caller, fmt.Errorf("%w: voter address is the zero address", ErrInvalidInput))
	}
	if _, ok := e.voters[principal]; ok {
		return e.reject(command, caller, fmt.Errorf("%w: %s", ErrAlreadyRegistered, principal.Hex()))
	}

	if err := e.emit(Event{Kind: EventVoterRegistered, Principal: principal}); err != nil {
		return e.reject(command, caller, err)
	}
	e.voters[principal] = &Voter{IsRegistered: true}
	e.logger.Info("voter registered", "voter", principal.Hex())
	return nil
}

// StartProposalsRegistration moves RegisteringVoters → ProposalsRegistrationStarted.
func (e *Election) StartProposalsRegistration(caller common.Address) error {
	return e.step(caller, "startProposalsRegistration", RegisteringVoters)
}

// EndProposalsRegistration moves ProposalsRegistrationStarted → ProposalsRegistrationEnded.
func (e *Election) EndProposalsRegistration(caller common.Address) error {
	return e.step(caller, "endProposalsRegistration", ProposalsRegistrationStarted)
}

// StartVotingSession moves ProposalsRegistrationEnded → VotingSessionStarted.
func (e *Election) StartVotingSession(caller common.Address) error {
	return e.step(caller, "startVotingSession", ProposalsRegistrationEnded)
}

// EndVotingSession moves VotingSessionStarted → VotingSessionEnded.
func (e *Election) EndVotingSession(caller common.Address) error {
	return e.step(caller, "endVotingSession", VotingSessionStarted)
}

// TallyVotes selects the winner with Tally and moves VotingSessionEnded →
// VotesTallied. It returns the winning index.
func (e *Election) TallyVotes(caller common.Address) (int, error) {
	if err := e.step(caller, "tallyVotes", VotingSessionEnded); err != nil {
		return -1, err
	}
	winner, _ := e.WinningProposalIndex()
	return winner, nil
}

// RegisterProposal appends a proposal submitted by a registered voter while
// ProposalsRegistrationStarted and returns its index.
func (e *Election) RegisterProposal(caller common.Address, description string) (int, error) {
	const command = "registerProposal"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireVoter(command, caller); err != nil {
		return -1, err
	}
	if e.phase != ProposalsRegistrationStarted {
		return -1, e.reject(command, caller, phaseError(command, ProposalsRegistrationStarted, e.phase))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return -1, e.reject(command, caller, fmt.Errorf("%w: proposal description is empty", ErrInvalidInput))
	}

	index := len(e.proposals)
	if err := e.emit(Event{
		Kind:          EventProposalRegistered,
		ProposalIndex: index,
		Principal:     caller,
		Description:   description,
	}); err != nil {
		return -1, e.reject(command, caller, err)
	}
	e.proposals = append(e.proposals, Proposal{Description: description})
	e.logger.Info("proposal registered", "proposal_id", index, "voter", caller.Hex())
	return index, nil
}

// Vote records the caller's single, irrevocable vote for proposal index.
func (e *Election) Vote(caller common.Address, index int) error {
	const command = "vote"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireVoter(command, caller); err != nil {
		return err
	}
	if e.phase != VotingSessionStarted {
		return e.reject(command, caller, phaseError(command, VotingSessionStarted, e.phase))
	}
	voter := e.voters[caller]
	if voter.HasVoted {
		return e.reject(command, caller, fmt.Errorf("%w: %s voted for proposal %d", ErrAlreadyVoted, caller.Hex(), voter.VotedProposalIndex))
	}
	if index < 0 || index >= len(e.proposals) {
		return e.reject(command, caller, proposalError(index, len(e.proposals)))
	}

	if err := e.emit(Event{Kind: EventVoted, Principal: caller, ProposalIndex: index}); err != nil {
		return e.reject(command, caller, err)
	}
	voter.HasVoted = true
	voter.VotedProposalIndex = index
	e.proposals[index].VoteCount++
	e.logger.Info("vote cast", "voter", caller.Hex(), "proposal_id", index)
	return nil
}

// VetoProposal excludes proposal index from winner selection. Administrative
// and allowed in every phase; votes already cast for it are kept.
func (e *Election) VetoProposal(caller common.Address, index int) error {
	const command = "vetoProposal"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(command, caller); err != nil {
		return err
	}
	if index < 0 || index >= len(e.proposals) {
		return e.reject(command, caller, proposalError(index, len(e.proposals)))
	}
	if e.vetoed[index] {
		return e.reject(command, caller, fmt.Errorf("%w: proposal %d", ErrAlreadyVetoed, index))
	}

	if err := e.emit(Event{Kind: EventProposalVetoed, ProposalIndex: index}); err != nil {
		return e.reject(command, caller, err)
	}
	e.vetoed[index] = true
	e.logger.Info("proposal vetoed", "proposal_id", index)
	return nil
}

// SetWorkflowDeadline sets the deadline to now + d and returns it.
func (e *Election) SetWorkflowDeadline(caller common.Address, d time.Duration) (time.Time, error) {
	const command = "setWorkflowDeadline"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(command, caller); err != nil {
		return time.Time{}, err
	}
	if d < 0 {
		return time.Time{}, e.reject(command, caller, fmt.Errorf("%w: negative deadline duration %s", ErrInvalidInput, d))
	}

	deadline := e.clock.Now().Add(d)
	if err := e.emit(Event{Kind: EventDeadlineSet, Deadline: deadline}); err != nil {
		return time.Time{}, e.reject(command, caller, err)
	}
	e.deadline = deadline
	e.hasDeadline = true
	e.logger.Info("workflow deadline set", "deadline", deadline, "duration", d)
	return deadline, nil
}

// ProceedToNextStep advances the phase by one step once the deadline has
// been reached, exactly as the explicit transition for the current phase
// would. It returns the new phase.
func (e *Election) ProceedToNextStep(caller common.Address) (Phase, error) {
	const command = "proceedToNextStep"
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(command, caller); err != nil {
		return e.phase, err
	}
	if e.phase.Terminal() {
		return e.phase, e.reject(command, caller, fmt.Errorf("%w: no step after %s", ErrInvalidPhase, e.phase))
	}
	if !e.hasDeadline {
		return e.phase, e.reject(command, caller, fmt.Errorf("%w: no deadline set", ErrDeadlineNotReached))
	}
	if now := e.clock.Now(); now.Before(e.deadline) {
		return e.phase, e.reject(command, caller, fmt.Errorf("%w: %s remaining", ErrDeadlineNotReached, e.deadline.Sub(now).Round(time.Second)))
	}
	if err := e.advance(); err != nil {
		return e.phase, e.reject(command, caller, err)
	}
	return e.phase, nil
}

func (e *Election) step(caller common.Address, command string, from Phase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(command, caller); err != nil {
		return err
	}
	if e.phase != from {
		return e.reject(command, caller, phaseError(command, from, e.phase))
	}
	if err := e.advance(); err != nil {
		return e.reject(command, caller, err)
	}
	return nil
}

// advance performs the single step out of the current phase. Leaving
// VotingSessionEnded runs the tally; if it fails nothing changes.
func (e *Election) advance() error {
	prev := e.phase
	next, ok := prev.Next()
	if !ok {
		return fmt.Errorf("%w: no step after %s", ErrInvalidPhase, prev)
	}
	winner := -1
	if prev == VotingSessionEnded {
		var err error
		if winner, err = Tally(e.proposals, e.vetoed); err != nil {
			return err
		}
	}
	if err := e.emit(Event{Kind: EventPhaseChanged, PreviousPhase: prev, NewPhase: next}); err != nil {
		return err
	}

	if winner >= 0 {
		e.winner = winner
		e.tallied = true
		e.logger.Info("votes tallied", "winning_proposal_id", winner, "vote_count", e.proposals[winner].VoteCount)
	}
	e.phase = next
	e.logger.Info("workflow status changed", "previous", prev.String(), "new", next.String())
	return nil
}

func (e *Election) requireAdmin(command string, caller common.Address) error {
	if caller != e.administrator {
		return e.reject(command, caller, fmt.Errorf("%w: %s is restricted to the administrator", ErrUnauthorized, command))
	}
	return nil
}

func (e *Election) requireVoter(command string, caller common.Address) error {
	if v, ok := e.voters[caller]; !ok || !v.IsRegistered {
		return e.reject(command, caller, fmt.Errorf("%w: %s", ErrNotARegisteredVoter, caller.Hex()))
	}
	return nil
}

func (e *Election) reject(command string, caller common.Address, err error) error {
	e.logger.Debug("command rejected",
		"command", command,
		"caller", caller.Hex(),
		"phase", e.phase.String(),
		"error", err,
	)
	return err
}

// emit numbers ev and delivers it to the observers. It runs before the
// command mutates anything: if an observer fails, the command fails with
// ErrNotificationFailed and the sequence number is not consumed. Replayed
// events keep the time they were recorded at and skip the observers.
func (e *Election) emit(ev Event) error {
	ev.Sequence = e.sequence + 1
	ev.Administrator = e.administrator
	if e.replaying {
		ev.At = e.replayAt
	} else {
		ev.At = e.clock.Now()
		for _, o := range e.observers {
			if err := o(ev); err != nil {
				return fmt.Errorf("%w: %s event %d: %w", ErrNotificationFailed, ev.Kind, ev.Sequence, err)
			}
		}
	}
	e.sequence = ev.Sequence
	e.updatedAt = ev.At
	return nil
}
