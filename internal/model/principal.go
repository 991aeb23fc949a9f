package model

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// Role names carried in access tokens.
const (
	RoleVoter     = "voter"
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
)

// Principal is an authenticated actor. The set of implementations is closed.
type Principal interface {
	Role() string
	Subject() uuid.UUID
	sealed()
}

// VoterPrincipal is an authenticated voter.
type VoterPrincipal struct{ ID uuid.UUID }

// CandidatePrincipal is an authenticated candidate.
type CandidatePrincipal struct{ ID uuid.UUID }

// AdminPrincipal is the authenticated administrator.
type AdminPrincipal struct{ ID uuid.UUID }

func (p VoterPrincipal) Role() string           { return RoleVoter }
func (p VoterPrincipal) Subject() uuid.UUID     { return p.ID }
func (VoterPrincipal) sealed()                  {}
func (p CandidatePrincipal) Role() string       { return RoleCandidate }
func (p CandidatePrincipal) Subject() uuid.UUID { return p.ID }
func (CandidatePrincipal) sealed()              {}
func (p AdminPrincipal) Role() string           { return RoleAdmin }
func (p AdminPrincipal) Subject() uuid.UUID     { return p.ID }
func (AdminPrincipal) sealed()                  {}

// NewPrincipal builds the variant named by role.
func NewPrincipal(role string, id uuid.UUID) (Principal, error) {
	switch role {
	case RoleVoter:
		return VoterPrincipal{ID: id}, nil
	case RoleCandidate:
		return CandidatePrincipal{ID: id}, nil
	case RoleAdmin:
		return AdminPrincipal{ID: id}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}
