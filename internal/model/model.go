// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// MaxTaglineLen is the maximum tagline length in characters.
const MaxTaglineLen = 100

// Tokens collects an issued access token.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// Credential is an argon2id password hash with its per-record salt.
type Credential struct {
	PwdHash []byte
	Salt    []byte
}

// Voter is a registered elector. HasVoted and VotedCandidate change together, exactly once.
type Voter struct {
	ID             uuid.UUID // PK
	VoterID        string    // public login id, VTR-XXXXXXXXX
	Name           string
	Email          string // unique, lower-cased
	Cred           Credential
	HasVoted       bool
	VotedCandidate *uuid.UUID // non-nil iff HasVoted
	RegisteredAt   time.Time
}

// ApprovalStatus is the candidacy state. Exactly one value holds at a time.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Candidate is a person standing for election.
type Candidate struct {
	ID           uuid.UUID // PK
	CandidateID  string    // public login id, CND-XXXXXXXXX
	Name         string
	Email        string
	Cred         Credential
	Pitch        string
	Tagline      string
	Votes        int64
	Status       ApprovalStatus
	RegisteredAt time.Time
}

// Admin is the single administrator account.
type Admin struct {
	ID        uuid.UUID
	Email     string
	Cred      Credential
	CreatedAt time.Time
}

// Standing is one row of the results table.
type Standing struct {
	ID          uuid.UUID
	CandidateID string
	Name        string
	Tagline     string
	Votes       int64
}

// Results is the published tally.
type Results struct {
	Candidates  []Standing
	VotingEnded bool
}

// VotingStatus is the window state with its configured bounds.
type VotingStatus struct {
	Status  WindowStatus
	Message string
	Window  Window
}
