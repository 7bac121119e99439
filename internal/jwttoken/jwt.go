// Package jwttoken issues and validates the bearer tokens the surrounding
// environment uses to authenticate callers. The account claim is the only
// thing the core trusts from the token.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"propdesk/pkg/domain"
	dErrors "propdesk/pkg/domain-errors"
)

// Claims carried by propdesk access tokens.
type Claims struct {
	Account string `json:"account"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// GenerateToken mints a token for an account.
func (s *Service) GenerateToken(account domain.AccountID, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Account: account.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks the signature and expiry and returns the caller
// account.
func (s *Service) ValidateToken(tokenString string) (domain.AccountID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	account, err := domain.AccountIDFromHex(claims.Account)
	if err != nil || account.IsZero() {
		return domain.AccountID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid account claim")
	}
	return account, nil
}
