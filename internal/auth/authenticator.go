package auth

import (
	"fmt"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ErrMissingToken is returned by RequireUser when the request carried no token.
// It wraps ErrUnauthorized so callers that only check for ErrUnauthorized treat both alike.
var ErrMissingToken = fmt.Errorf("%w: missing token", ErrUnauthorized)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticator is the gate in front of every privileged operation. It does no I/O.
type Authenticator struct {
	tokens tokenVerifier
}

func NewAuthenticator(tokens tokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>" header,
// or "" when the header is absent or malformed.
func (a *Authenticator) ExtractBearer(header http.Header) string {
	return ExtractBearer(header)
}

// RequireUser verifies token and returns the user id it was issued for.
func (a *Authenticator) RequireUser(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	userID, err := a.tokens.Verify(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return userID, nil
}

func ExtractBearer(header http.Header) string {
	authorization := header.Get("Authorization")
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(bearerPrefix):])
}
