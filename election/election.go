// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Voter is the registration and ballot record of one principal.
type Voter struct {
	IsRegistered bool `json:"is_registered"`
	HasVoted     bool `json:"has_voted"`
	// VotedProposalIndex is meaningful only when HasVoted is true.
	VotedProposalIndex int `json:"voted_proposal_index"`
}

// Proposal is a registered proposal. Description never changes after
// registration; VoteCount only grows during VotingSessionStarted.
type Proposal struct {
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

// Clock supplies the current time for deadlines and event timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Election is the single election of a process. All commands are serialized
// by an internal lock and either apply completely or leave the election
// unchanged.
type Election struct {
	mu sync.Mutex

	administrator common.Address
	phase         Phase
	voters        map[common.Address]*Voter
	proposals     []Proposal
	vetoed        map[int]bool
	winner        int
	tallied       bool
	deadline      time.Time
	hasDeadline   bool

	sequence  uint64
	updatedAt time.Time
	observers []Observer
	replaying bool
	replayAt  time.Time

	clock  Clock
	logger *slog.Logger
}

// Option configures an Election.
type Option func(e *Election)

// WithClock sets the time source used for deadlines and event timestamps.
func WithClock(c Clock) Option {
	return func(e *Election) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithObserver registers a notification observer.
func WithObserver(o Observer) Option {
	return func(e *Election) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithLogger sets the logger for applied and rejected commands.
func WithLogger(l *slog.Logger) Option {
	return func(e *Election) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an election administered by admin, in phase RegisteringVoters
// with no voters, proposals, vetoes, winner or deadline.
func New(admin common.Address, opts ...Option) *Election {
	e := &Election{
		administrator: admin,
		phase:         RegisteringVoters,
		voters:        make(map[common.Address]*Voter),
		vetoed:        make(map[int]bool),
		winner:        -1,
		clock:         systemClock{},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Administrator returns the principal allowed to run administrative commands.
func (e *Election) Administrator() common.Address {
	return e.administrator
}

// Phase returns the current workflow phase.
func (e *Election) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Voter returns the record of principal. ok is false if it was never registered.
func (e *Election) Voter(principal common.Address) (v Voter, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.voters[principal]
	if !ok {
		return Voter{}, false
	}
	return *rec, true
}

// VoterCount returns the number of registered voters.
func (e *Election) VoterCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.voters)
}

// Proposal returns the proposal at index.
func (e *Election) Proposal(index int) (Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.proposals) {
		return Proposal{}, proposalError(index, len(e.proposals))
	}
	return e.proposals[index], nil
}

// ProposalCount returns the number of registered proposals. Valid indices are
// 0 through ProposalCount()-1.
func (e *Election) ProposalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.proposals)
}

// Proposals returns a copy of all proposals in index order.
func (e *Election) Proposals() []Proposal {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Proposal, len(e.proposals))
	copy(out, e.proposals)
	return out
}

// IsVetoed reports whether the proposal at index has been vetoed.
func (e *Election) IsVetoed(index int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.proposals) {
		return false, proposalError(index, len(e.proposals))
	}
	return e.vetoed[index], nil
}

// WinningProposalIndex returns the index chosen by TallyVotes. ok is false
// before tallying.
func (e *Election) WinningProposalIndex() (index int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winner, e.tallied
}

// Winner returns the description of the winning proposal.
func (e *Election) Winner() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.tallied {
		return "", ErrNotTalliedYet
	}
	return e.proposals[e.winner].Description, nil
}

// Deadline returns the deadline set by SetWorkflowDeadline, if any.
func (e *Election) Deadline() (deadline time.Time, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deadline, e.hasDeadline
}

// Snapshot is a consistent read of the whole election.
type Snapshot struct {
	Administrator common.Address
	Phase         Phase
	VoterCount    int
	VotesCast     int
	Proposals     []Proposal
	Vetoed        []int
	Winner        int
	Tallied       bool
	Deadline      time.Time
	HasDeadline   bool
	Sequence      uint64
	// UpdatedAt is the time of the latest notification, zero before the first.
	UpdatedAt time.Time
}

// Snapshot returns a copy of the election state taken under a single lock.
func (e *Election) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Administrator: e.administrator,
		Phase:         e.phase,
		VoterCount:    len(e.voters),
		Proposals:     make([]Proposal, len(e.proposals)),
		Vetoed:        []int{},
		Winner:        e.winner,
		Tallied:       e.tallied,
		Deadline:      e.deadline,
		HasDeadline:   e.hasDeadline,
		Sequence:      e.sequence,
		UpdatedAt:     e.updatedAt,
	}
	copy(s.Proposals, e.proposals)
	for i := range e.proposals {
		if e.vetoed[i] {
			s.Vetoed = append(s.Vetoed, i)
		}
	}
	for _, v := range e.voters {
		if v.HasVoted {
			s.VotesCast++
		}
	}
	return s
}
