package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the read-only auth context handed to the client core by the
// host application: the bearer token it stores and the user id needed to
// address the realtime channel and tag wallet debits.
type Session struct {
	UserID string
	Token  string
}

// Claims mirrors the server-issued token claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// FromToken builds a session from a stored bearer token. The signature is
// not verified here; the server is the verifier and this core only needs the
// user id out of the claims.
func FromToken(raw string) (Session, error) {
	if raw == "" {
		return Session{}, errors.New("empty token")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Session{}, fmt.Errorf("failed to parse token: %w", err)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return Session{}, errors.New("token carries no user id")
	}

	return Session{UserID: userID, Token: raw}, nil
}

// TokenSource returns the session's token; shaped for api.NewClient
func (s Session) TokenSource() func() string {
	return func() string { return s.Token }
}
