package auth

import (
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	bearerPrefix = "bearer"

	// GuestCookieName carries the per-visitor id that keys an anonymous
	// visitor's cart. Without it every guest would collapse onto one
	// shared session key.
	GuestCookieName = "platter_guest"
)

// SessionExtractor resolves the bearer token into a Session and stores it
// on the request context. Requests without a usable token proceed as guest,
// identified by a per-visitor cookie minted on first contact; rejecting
// them is the job of route-level gates, not of extraction.
func SessionExtractor(issuer *TokenIssuer, logger apt.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session *Session
			if token := bearerToken(r); token != "" {
				parsed, err := issuer.Parse(token)
				if err != nil {
					logger.Debug("rejected session token", "error", err)
				} else {
					session = parsed
				}
			}
			if session == nil {
				session = visitorSession(w, r)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// visitorSession resolves a stable guest identity from the visitor cookie,
// minting a fresh one when the request carries none.
func visitorSession(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(GuestCookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return GuestSessionFor(strings.TrimSpace(c.Value))
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return GuestSessionFor(id)
}

// RequireAdmin gates a route on the session role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := SessionFrom(r.Context())
		if !session.IsAdmin() {
			apt.RespondError(w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
