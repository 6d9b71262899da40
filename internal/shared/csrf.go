package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName is the cookie carrying the CSRF token.
	CSRFCookieName = "skillforge_csrf"
	// CSRFFormField is the form field name carrying the CSRF token.
	CSRFFormField = "csrf_token"
)

// CSRFManager issues and verifies double-submit CSRF tokens. Sessions are a
// stateless signed cookie here, so tokens are self-authenticating: a random
// nonce plus an HMAC over it, stored in a dedicated cookie and echoed back in
// the form.
type CSRFManager struct {
	secret []byte
	secure bool
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret string, secure bool) *CSRFManager {
	return &CSRFManager{secret: []byte(secret), secure: secure}
}

// EnsureToken returns the request's CSRF token, minting the cookie when absent
// or tampered with.
func (m *CSRFManager) EnsureToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil {
		if m.validToken(cookie.Value) {
			return cookie.Value
		}
	}
	token := m.mintToken()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// VerifyRequest compares the submitted token against the cookie token.
func (m *CSRFManager) VerifyRequest(r *http.Request, token string) error {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" || token == "" {
		return ErrCSRFTokenMissing
	}
	if !m.validToken(cookie.Value) {
		return ErrCSRFTokenMismatch
	}
	if !hmac.Equal([]byte(cookie.Value), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) mintToken() string {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)
	return base64.RawURLEncoding.EncodeToString(nonce) + "." + m.sign(nonce)
}

func (m *CSRFManager) validToken(token string) bool {
	encoded, mac, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	nonce, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(m.sign(nonce)), []byte(mac))
}

func (m *CSRFManager) sign(nonce []byte) string {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write(nonce)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
