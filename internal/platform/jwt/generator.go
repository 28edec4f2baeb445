package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failures are collapsed into two kinds: a token is either past
// its embedded expiry or unusable for any other reason.
var (
	// ErrTokenExpired is returned when the current time is past the token's expiration.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenMalformed is returned when the signature is invalid, the payload
	// cannot be decoded, or a required claim is missing.
	ErrTokenMalformed = errors.New("token is invalid")
)

// Claims carries the identity embedded in an access token.
type Claims struct {
	Email string
	Name  string
}

// Generator defines the interface for access token issuance.
type Generator interface {
	// GenerateToken creates a signed token embedding the given identity.
	GenerateToken(email, name string) (string, error)
}

// Validator defines the interface for access token validation.
type Validator interface {
	// ValidateToken verifies a token and returns its identity claims.
	ValidateToken(tokenStr string) (*Claims, error)
}

// TokenService issues and validates signed, time-limited bearer tokens.
// Validity is purely signature + expiry: there is no revocation list.
type TokenService struct {
	secret     []byte
	expiration time.Duration
}

var (
	_ Generator = (*TokenService)(nil)
	_ Validator = (*TokenService)(nil)
)

// NewTokenService creates a TokenService with the provided symmetric secret
// and token lifetime.
func NewTokenService(secret string, expiration time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a signed JWT with identity claims and an expiration
// set to issue time plus the configured lifetime.
func (s *TokenService) GenerateToken(email, name string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"name":  name,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and verifies a token, returning its identity claims.
// Failures map to ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	email, ok := mapClaims["email"].(string)
	if !ok || email == "" {
		return nil, ErrTokenMalformed
	}
	name, _ := mapClaims["name"].(string)

	return &Claims{Email: email, Name: name}, nil
}
