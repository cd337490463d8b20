// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind names a notification emitted by a successful command.
type EventKind string

const (
	EventVoterRegistered    EventKind = "voter_registered"
	EventPhaseChanged       EventKind = "phase_changed"
	EventProposalRegistered EventKind = "proposal_registered"
	EventVoted              EventKind = "voted"
	EventProposalVetoed     EventKind = "proposal_vetoed"
	EventDeadlineSet        EventKind = "deadline_set"
)

// Event is a notification. Every event carries the election's Administrator;
// otherwise only the fields relevant to Kind are set:
//
//	voter_registered     Principal
//	phase_changed        PreviousPhase, NewPhase
//	proposal_registered  ProposalIndex, Principal (submitter), Description
//	voted                Principal, ProposalIndex
//	proposal_vetoed      ProposalIndex
//	deadline_set         Deadline
type Event struct {
	Sequence      uint64         `json:"sequence"`
	Kind          EventKind      `json:"kind"`
	At            time.Time      `json:"at"`
	Administrator common.Address `json:"administrator"`
	Principal     common.Address `json:"principal"`
	ProposalIndex int            `json:"proposal_index"`
	Description   string         `json:"description,omitempty"`
	PreviousPhase Phase          `json:"previous_phase"`
	NewPhase      Phase          `json:"new_phase"`
	Deadline      time.Time      `json:"deadline"`
}

// Observer receives every notification in command order, before the command
// is applied. Returning an error aborts the command; observers registered
// earlier have already seen the event. It is called while the election lock
// is held and must not call back into the election.
type Observer func(Event) error
