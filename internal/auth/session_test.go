package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	session := &Session{UserID: "user-1", Email: "user@example.com", Role: RoleAdmin}

	token, err := issuer.Issue(session)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned an empty token")
	}

	parsed, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parsed.UserID != session.UserID {
		t.Errorf("parsed UserID = %q, want %q", parsed.UserID, session.UserID)
	}
	if parsed.Email != session.Email {
		t.Errorf("parsed Email = %q, want %q", parsed.Email, session.Email)
	}
	if parsed.Role != session.Role {
		t.Errorf("parsed Role = %q, want %q", parsed.Role, session.Role)
	}
}

func TestTokenIssuerParseRejections(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	valid, err := issuer.Issue(&Session{UserID: "user-1", Email: "user@example.com", Role: RoleCustomer})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherIssuer := NewTokenIssuer("other-secret", time.Hour)
	foreign, err := otherIssuer.Issue(&Session{UserID: "user-1", Email: "user@example.com", Role: RoleCustomer})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	expiredIssuer := NewTokenIssuer("test-secret", time.Nanosecond)
	expired, err := expiredIssuer.Issue(&Session{UserID: "user-1", Email: "user@example.com", Role: RoleCustomer})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "wrongSecret", token: foreign},
		{name: "expired", token: expired},
		{name: "truncated", token: valid[:len(valid)-8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestTokenIssuerDefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 0)
	if issuer.ttl != defaultSessionTTL {
		t.Errorf("ttl = %v, want %v", issuer.ttl, defaultSessionTTL)
	}
}

func TestSessionRoles(t *testing.T) {
	tests := []struct {
		name      string
		session   *Session
		wantAdmin bool
		wantGuest bool
	}{
		{
			name:      "adminSession",
			session:   &Session{UserID: "u1", Role: RoleAdmin},
			wantAdmin: true,
		},
		{
			name:    "customerSession",
			session: &Session{UserID: "u1", Role: RoleCustomer},
		},
		{
			name:      "guestSession",
			session:   GuestSession(),
			wantGuest: true,
		},
		{
			name:      "visitorSession",
			session:   GuestSessionFor("3f8d2c10"),
			wantGuest: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsAdmin(); got != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.wantAdmin)
			}
			if got := tt.session.IsGuest(); got != tt.wantGuest {
				t.Errorf("IsGuest() = %v, want %v", got, tt.wantGuest)
			}
		})
	}
}

func TestSessionCartKey(t *testing.T) {
	s := &Session{UserID: "user-1"}
	if s.CartKey() != "user-1" {
		t.Errorf("CartKey() = %q, want user-1", s.CartKey())
	}
	if GuestSession().CartKey() != GuestID {
		t.Errorf("guest CartKey() = %q, want %q", GuestSession().CartKey(), GuestID)
	}

	// Distinct visitors must key distinct carts.
	a := GuestSessionFor("visitor-a")
	b := GuestSessionFor("visitor-b")
	if a.CartKey() == b.CartKey() {
		t.Errorf("visitor cart keys collide: %q", a.CartKey())
	}
}

func TestSessionFromContext(t *testing.T) {
	session := &Session{UserID: "user-1", Email: "user@example.com", Role: RoleCustomer}
	ctx := WithSession(context.Background(), session)

	if got := SessionFrom(ctx); got != session {
		t.Errorf("SessionFrom() = %+v, want the attached session", got)
	}

	// No session on the context falls back to guest, never nil.
	got := SessionFrom(context.Background())
	if got == nil {
		t.Fatal("SessionFrom() returned nil")
	}
	if !got.IsGuest() {
		t.Errorf("SessionFrom() without session = %+v, want guest", got)
	}
}
