// Package auth verifies session tokens issued by the hosted auth provider
// and threads the resulting session through the request context. Handlers
// receive an explicit Session instead of reading cookies or headers
// themselves.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cristalhq/jwt/v4"
)

// SessionCookie is the cookie the dashboard stores the access token in.
const SessionCookie = "sb-access-token"

// ErrNoSession is returned when a request carries no usable session token.
var ErrNoSession = errors.New("no session")

// Session identifies the authenticated host for one request.
type Session struct {
	UserID string
}

// Verifier validates HS256 session tokens against the provider's signing
// secret.
type Verifier struct {
	verifier *jwt.HSAlg
}

// NewVerifier builds a Verifier for the given signing secret.
func NewVerifier(secret []byte) (*Verifier, error) {
	v, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	return &Verifier{verifier: v}, nil
}

// FromRequest extracts and verifies the session token from the Authorization
// bearer header, falling back to the session cookie. It returns ErrNoSession
// when no token is present or the token fails verification.
func (v *Verifier) FromRequest(r *http.Request) (*Session, error) {
	raw := bearerToken(r.Header.Get("Authorization"))
	if raw == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil, ErrNoSession
	}
	return v.Parse(raw)
}

// Parse verifies a raw token and returns the session it represents.
func (v *Verifier) Parse(raw string) (*Session, error) {
	token, err := jwt.Parse([]byte(raw), v.verifier)
	if err != nil {
		return nil, ErrNoSession
	}

	var claims jwt.RegisteredClaims
	if err := json.Unmarshal(token.Claims(), &claims); err != nil {
		return nil, ErrNoSession
	}
	if !claims.IsValidAt(time.Now()) {
		return nil, ErrNoSession
	}
	if claims.Subject == "" {
		return nil, ErrNoSession
	}

	return &Session{UserID: claims.Subject}, nil
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

type sessionKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by the auth middleware, or nil for
// unauthenticated requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
