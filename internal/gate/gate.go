// Package gate is the authentication and authorization boundary of the
// platform. It verifies the session cookie, resolves the caller's role, and
// turns every request into an allow, redirect, or redirect-and-clear decision
// before any handler runs.
package gate

import (
	"log/slog"
	"net/http"
	"time"
)

// Gate is the per-request orchestration point. It holds only immutable
// configuration, so a single instance serves all requests concurrently.
type Gate struct {
	logger     *slog.Logger
	codec      *Codec
	classifier *Classifier
	cookieName string
	secure     bool
}

// New constructs a Gate. secure controls the cookie Secure flag and should be
// true outside local development.
func New(logger *slog.Logger, codec *Codec, classifier *Classifier, cookieName string, secure bool) *Gate {
	return &Gate{
		logger:     logger,
		codec:      codec,
		classifier: classifier,
		cookieName: cookieName,
		secure:     secure,
	}
}

// CookieName returns the session cookie identifier.
func (g *Gate) CookieName() string {
	return g.cookieName
}

// Codec exposes the token codec for the login surface that issues tokens.
func (g *Gate) Codec() *Codec {
	return g.codec
}

// Middleware runs the gate on every request. Bypass routes pass through
// without the cookie even being read.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := g.classifier.Classify(r.URL.Path)
		if category == RouteBypass {
			next.ServeHTTP(w, r)
			return
		}

		token, tokenPresent := g.readToken(r)
		var principal *Principal
		if tokenPresent {
			p, err := g.codec.Verify(token)
			if err != nil {
				// The cause never reaches the client; the decision is the
				// same for every invalid token.
				g.logger.Warn("session token rejected",
					slog.String("path", r.URL.Path),
					slog.String("category", category.String()),
					slog.Any("error", err))
			} else {
				principal = &p
			}
		}

		switch action := Decide(category, tokenPresent, principal, r.URL.Path); action.Kind {
		case ActionRedirect:
			http.Redirect(w, r, action.Location, http.StatusSeeOther)
		case ActionRedirectClearCookie:
			g.ClearSessionCookie(w)
			http.Redirect(w, r, action.Location, http.StatusSeeOther)
		default:
			if principal != nil {
				r = r.WithContext(ContextWithPrincipal(r.Context(), principal))
			}
			next.ServeHTTP(w, r)
		}
	})
}

// SetSessionCookie writes a freshly issued token as the session cookie.
func (g *Gate) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.codec.TTL() / time.Second),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie deletes the session cookie.
func (g *Gate) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Gate) readToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
