package gate

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the decoded identity of the current request's caller. It is
// derived from the session token on every request and never stored.
type Principal struct {
	SubjectID string
	Role      Role
	CompanyID string
	Email     string
	Name      string
}

// Verification failures. All of them collapse to the same user-visible
// behavior; they exist for operator diagnostics only.
var (
	ErrTokenMalformed = errors.New("gate: token malformed")
	ErrMissingSubject = errors.New("gate: token missing subject claim")
	ErrUnknownRole    = errors.New("gate: token role claim not recognized")
	ErrTenantShape    = errors.New("gate: token company claim violates role shape")
)

type sessionClaims struct {
	Role      string `json:"role"`
	CompanyID string `json:"cid,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. Verification is a pure function of
// the token and the clock; it performs no I/O and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	issuer string
}

// NewCodec constructs a Codec. The secret and leeway come from configuration
// fixed at process start; leeway widens the expiry check by the given skew.
func NewCodec(secret string, ttl, leeway time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		leeway: leeway,
		issuer: "skillforge",
	}
}

// TTL exposes the configured session lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a session token for the principal and returns the token together
// with its unique token ID, recorded in the session registry at login.
func (c *Codec) Issue(p Principal) (token string, jti string, err error) {
	if err := checkShape(p); err != nil {
		return "", "", err
	}
	jti = uuid.NewString()
	now := time.Now()
	claims := sessionClaims{
		Role:      string(p.Role),
		CompanyID: p.CompanyID,
		Email:     p.Email,
		Name:      p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   p.SubjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// Verify decodes a session token into a Principal. Every failure mode
// (malformed, bad signature, expired, missing subject, unknown role, tenant
// shape violation) is returned as a non-nil error; callers must treat any
// error as "no principal" and never inspect the returned value alongside one.
func (c *Codec) Verify(token string) (Principal, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	}
	if c.leeway > 0 {
		options = append(options, jwt.WithLeeway(c.leeway))
	}
	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return Principal{}, ErrMissingSubject
	}
	role, ok := ParseRole(claims.Role)
	if !ok {
		return Principal{}, ErrUnknownRole
	}
	p := Principal{
		SubjectID: claims.Subject,
		Role:      role,
		CompanyID: claims.CompanyID,
		Email:     claims.Email,
		Name:      claims.Name,
	}
	if err := checkShape(p); err != nil {
		return Principal{}, err
	}
	return p, nil
}

// SessionID extracts the unique token ID from a valid token. The login
// surface uses it to maintain the issued-session registry; the gate itself
// never calls it.
func (c *Codec) SessionID(token string) (string, error) {
	parsed, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
	).ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.ID == "" {
		return "", ErrTokenMalformed
	}
	return claims.ID, nil
}

// checkShape enforces the tenant invariant: platform admins carry no company,
// company-scoped roles always carry one. A violation marks a forged or corrupt
// token and is treated exactly like an unknown role.
func checkShape(p Principal) error {
	switch p.Role {
	case RolePlatformAdmin:
		if p.CompanyID != "" {
			return ErrTenantShape
		}
	case RoleCompanyAdmin, RoleStaff:
		if p.CompanyID == "" {
			return ErrTenantShape
		}
	default:
		return ErrUnknownRole
	}
	return nil
}
