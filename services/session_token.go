package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims is the signed payload of a session cookie
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionSigner signs and verifies session tokens with an HMAC secret
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner creates a signer for the given secret key
func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// Sign produces the token handed to the client for a stored session
func (s *SessionSigner) Sign(session *Session) (string, error) {
	claims := sessionClaims{
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatUint(uint64(session.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the session id and user id
func (s *SessionSigner) Verify(token string) (string, uint, error) {
	return s.parse(token, jwt.WithExpirationRequired())
}

// SessionID extracts the session id from a correctly signed token even if it has expired.
// Logout uses it so an expired cookie still clears its server-side record.
func (s *SessionSigner) SessionID(token string) (string, error) {
	id, _, err := s.parse(token, jwt.WithoutClaimsValidation())
	return id, err
}

func (s *SessionSigner) parse(token string, opts ...jwt.ParserOption) (string, uint, error) {
	if token == "" {
		return "", 0, errors.New("empty session token")
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", 0, fmt.Errorf("invalid session token: %w", err)
	}

	if claims.ID == "" {
		return "", 0, errors.New("session token has no id")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid subject in session token: %w", err)
	}
	return claims.ID, uint(userID), nil
}
