// Package jwttoken issues and validates the bearer tokens that identify
// requesters. The requester identity travels in the standard sub claim.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "boardcheck/pkg/domain"
	dErrors "boardcheck/pkg/domain-errors"
)

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken signs a token whose subject is the requester identity.
func (s *Service) GenerateAccessToken(requester id.RequesterID, expiresIn time.Duration) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   requester.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    s.issuer,
		Audience:  []string{s.audience},
		ID:        uuid.NewString(),
	})
	return newToken.SignedString(s.signingKey)
}

// ValidateToken verifies the signature, expiry, issuer, and audience, then
// returns the requester identity from the sub claim.
func (s *Service) ValidateToken(tokenString string) (id.RequesterID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.RequesterID{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return id.RequesterID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return id.RequesterID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return id.RequesterID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	requester, err := id.ParseRequesterID(claims.Subject)
	if err != nil {
		return id.RequesterID{}, dErrors.New(dErrors.CodeUnauthorized, "token subject is not a valid requester id")
	}
	return requester, nil
}
