package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// GuestID identifies requesters with no session at all.
	GuestID = "guest"

	defaultSessionTTL = 12 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

// Session is the per-request identity carried through handlers: who the
// requester is and what role was resolved for them at sign-in. The role
// travels inside the token so admin checks never depend on an email literal.
type Session struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// GuestSession returns the identity used when no token is presented and no
// visitor id has been resolved yet.
func GuestSession() *Session {
	return &Session{UserID: GuestID, Email: GuestID, Role: RoleCustomer}
}

// GuestSessionFor returns the identity for an anonymous visitor with a
// stable visitor id. Each visitor gets their own cart key; guests never
// share session-scoped state.
func GuestSessionFor(visitorID string) *Session {
	return &Session{UserID: GuestID + "-" + visitorID, Email: GuestID, Role: RoleCustomer}
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// IsGuest reports whether the requester never signed in.
func (s *Session) IsGuest() bool {
	return s.UserID == GuestID || strings.HasPrefix(s.UserID, GuestID+"-")
}

// CartKey returns the key under which this session's cart lives.
func (s *Session) CartKey() string {
	return s.UserID
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the session identity.
func (i *TokenIssuer) Issue(s *Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and rebuilds the session it carries.
func (i *TokenIssuer) Parse(tokenString string) (*Session, error) {
	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionFrom returns the request session, falling back to a guest session
// so callers never see a nil identity.
func SessionFrom(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok && s != nil {
		return s
	}
	return GuestSession()
}
