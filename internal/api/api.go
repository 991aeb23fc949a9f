// Package api declares the JSON bodies exchanged by the HTTP server and the CLI.
package api

import "time"

// Error is the body of every non-2xx response.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Message is a plain acknowledgement.
type Message struct {
	Message string `json:"message"`
}

type RegisterVoterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterCandidateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pitch    string `json:"pitch"`
	Tagline  string `json:"tagline"`
}

type LoginVoterRequest struct {
	VoterID  string `json:"voterId"`
	Password string `json:"password"`
}

type LoginCandidateRequest struct {
	CandidateID string `json:"candidateId"`
	Password    string `json:"password"`
}

type LoginAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a fresh access token and the signed-in account.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Account
}

// Account is the "me" view; exactly one of Voter, Candidate, Admin is set.
type Account struct {
	Role      string     `json:"role"`
	Voter     *Voter     `json:"voter,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
	Admin     *Admin     `json:"admin,omitempty"`
}

type Voter struct {
	ID             string    `json:"id"`
	VoterID        string    `json:"voterId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HasVoted       bool      `json:"hasVoted"`
	VotedCandidate *string   `json:"votedCandidate"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// Candidate is a candidate profile. Email is omitted from public listings.
type Candidate struct {
	ID           string    `json:"id"`
	CandidateID  string    `json:"candidateId"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Pitch        string    `json:"pitch"`
	Tagline      string    `json:"tagline"`
	Votes        int64     `json:"votes"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type UpdateProfileRequest struct {
	Pitch   string `json:"pitch"`
	Tagline string `json:"tagline"`
}

// VotingTimings is both the request and the response of the timings endpoints.
type VotingTimings struct {
	VotingStartTime *time.Time `json:"votingStartTime"`
	VotingEndTime   *time.Time `json:"votingEndTime"`
}

type VotingStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	VotingTimings
}

type Standing struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Votes       int64  `json:"votes"`
}

type Results struct {
	Candidates  []Standing `json:"candidates"`
	VotingEnded bool       `json:"votingEnded"`
}

type Health struct {
	Status string `json:"status"`
}
