// Package jwtauth validates gateway-issued access tokens. The gateway signs
// HS256 tokens whose subject is the acting user's identifier.
package jwtauth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"marketmod/pkg/domain"
)

// Claims are the validated token claims the middleware consumes.
type Claims struct {
	ActorID domain.ActorID
	Roles   []string
	jwt.RegisteredClaims
}

type rawClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Validator verifies gateway tokens.
type Validator struct {
	signingKey []byte
	issuer     string
}

func NewValidator(signingKey, issuer string) *Validator {
	return &Validator{signingKey: []byte(signingKey), issuer: issuer}
}

// ValidateToken parses and verifies the token, returning the actor identity.
// Role claims are carried through but never trusted for authorization; the
// orchestrator re-resolves roles per operation.
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	var raw rawClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	actorID, err := strconv.ParseInt(raw.Subject, 10, 64)
	if err != nil || actorID <= 0 {
		return nil, jwt.ErrTokenInvalidSubject
	}

	return &Claims{
		ActorID:          domain.ActorID(actorID),
		Roles:            raw.Roles,
		RegisteredClaims: raw.RegisteredClaims,
	}, nil
}
