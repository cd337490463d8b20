// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "fmt"

// Phase is the workflow status of an election. Values are ordered and only
// ever move forward by one step.
type Phase uint8

const (
	RegisteringVoters Phase = iota
	ProposalsRegistrationStarted
	ProposalsRegistrationEnded
	VotingSessionStarted
	VotingSessionEnded
	VotesTallied
)

var phaseNames = [...]string{
	RegisteringVoters:            "RegisteringVoters",
	ProposalsRegistrationStarted: "ProposalsRegistrationStarted",
	ProposalsRegistrationEnded:   "ProposalsRegistrationEnded",
	VotingSessionStarted:         "VotingSessionStarted",
	VotingSessionEnded:           "VotingSessionEnded",
	VotesTallied:                 "VotesTallied",
}

// Labels shown to voters by the web frontend.
var phaseLabels = [...]string{
	RegisteringVoters:            "Enregistrement des votants",
	ProposalsRegistrationStarted: "Enregistrement des propositions démarré",
	ProposalsRegistrationEnded:   "Enregistrement des propositions terminé",
	VotingSessionStarted:         "Session de vote démarrée",
	VotingSessionEnded:           "Session de vote terminée",
	VotesTallied:                 "Votes comptabilisés",
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// Label returns the display label of the phase.
func (p Phase) Label() string {
	if !p.Valid() {
		return p.String()
	}
	return phaseLabels[p]
}

// Valid reports whether p is one of the six defined phases.
func (p Phase) Valid() bool {
	return p <= VotesTallied
}

// Terminal reports whether no transition is defined out of p.
func (p Phase) Terminal() bool {
	return p == VotesTallied
}

// Next returns the phase that follows p. ok is false for the terminal phase.
func (p Phase) Next() (next Phase, ok bool) {
	if !p.Valid() || p.Terminal() {
		return p, false
	}
	return p + 1, true
}
