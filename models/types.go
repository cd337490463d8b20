package models

import "time"

// Request types

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type RegisterProposalRequest struct {
	Description string `json:"description"`
}

// ProposalID is a pointer so a missing field is distinguishable from 0
type VoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

type SetDeadlineRequest struct {
	DurationSeconds *int64 `json:"duration_seconds"`
}

// Response types

type RegisterVoterResponse struct {
	Address      string `json:"address"`
	PrincipalKey string `json:"principal_key"`
}

type PhaseResponse struct {
	Phase      int    `json:"phase"`
	PhaseName  string `json:"phase_name"`
	PhaseLabel string `json:"phase_label"`
}

type TallyResponse struct {
	PhaseResponse
	WinningProposalID int    `json:"winning_proposal_id"`
	Description       string `json:"description"`
}

type RegisterProposalResponse struct {
	ProposalID int `json:"proposal_id"`
}

type VoteResponse struct {
	ProposalID int    `json:"proposal_id"`
	Message    string `json:"message"`
}

type VetoResponse struct {
	ProposalID int  `json:"proposal_id"`
	Vetoed     bool `json:"vetoed"`
}

type DeadlineResponse struct {
	Deadline   time.Time `json:"deadline"`
	DeadlineIn string    `json:"deadline_in"`
}

// Domain types

type Election struct {
	Administrator     string     `json:"administrator"`
	Phase             int        `json:"phase"`
	PhaseName         string     `json:"phase_name"`
	PhaseLabel        string     `json:"phase_label"`
	VoterCount        int        `json:"voter_count"`
	VotesCast         int        `json:"votes_cast"`
	ProposalCount     int        `json:"proposal_count"`
	VetoedProposals   []int      `json:"vetoed_proposals"`
	WinningProposalID *int       `json:"winning_proposal_id,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	DeadlineIn        string     `json:"deadline_in,omitempty"`
	Sequence          uint64     `json:"sequence"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type Proposal struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
	Vetoed      bool   `json:"vetoed"`
}

type ProposalList struct {
	Count     int        `json:"count"`
	Proposals []Proposal `json:"proposals"`
}

type Voter struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID *int   `json:"voted_proposal_id,omitempty"`
}

type Winner struct {
	ProposalID  int    `json:"proposal_id"`
	Description string `json:"description"`
	VoteCount   uint64 `json:"vote_count"`
}

// Event is a journaled notification. Only the fields of its kind are set.
type Event struct {
	ID            string     `json:"id"`
	Sequence      uint64     `json:"sequence"`
	Kind          string     `json:"kind"`
	At            time.Time  `json:"at"`
	RecordedAt    time.Time  `json:"recorded_at"`
	Principal     string     `json:"principal,omitempty"`
	ProposalID    *int       `json:"proposal_id,omitempty"`
	Description   string     `json:"description,omitempty"`
	PreviousPhase *int       `json:"previous_phase,omitempty"`
	NewPhase      *int       `json:"new_phase,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

type EventList struct {
	Events []Event `json:"events"`
	// Next is the value of ?after= for the following page
	Next uint64 `json:"next"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
