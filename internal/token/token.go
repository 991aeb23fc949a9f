// Package token issues and verifies HS256 access tokens that carry a principal.
package token

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/evote/internal/model"
)

// Claims are the registered JWT claims plus the principal role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a shared key.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer constructs an Issuer. A non-positive ttl defaults to one hour.
func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// Issue creates a signed token whose subject is the principal's record id.
func (i *Issuer) Issue(p model.Principal) (model.Tokens, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Role: p.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// Parse verifies tok and returns the principal it was issued for.
func (i *Issuer) Parse(tok string) (model.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.key, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return nil, errors.New("bad subject")
	}
	return model.NewPrincipal(claims.Role, id)
}
