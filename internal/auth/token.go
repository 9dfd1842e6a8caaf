// Package auth implements the credential primitives of the service:
// password hashing, the signed token codec and the role policy. Nothing in
// this package touches the database; persistence of issued tokens lives in
// the repository layer.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed structure, wrong signature, wrong signing method or expired
// timestamp. Callers cannot (and should not) distinguish these cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the decoded payload of a signed token. Subject holds the
// stringified user id. Role is set on access tokens only; refresh tokens
// carry the subject alone.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// UserID parses the subject back into a numeric user id.
func (c Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// Codec signs and verifies the two token families. Access and refresh
// tokens use independent secrets so one can never stand in for the other.
type Codec struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec builds a codec from the two signing secrets and the configured
// lifetimes.
func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess signs a short-lived access token carrying the user id and role.
func (c *Codec) IssueAccess(userID uint64, role string) (string, error) {
	return encode(Claims{Subject: strconv.FormatUint(userID, 10), Role: role}, c.accessSecret, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token carrying the user id only.
func (c *Codec) IssueRefresh(userID uint64) (string, error) {
	return encode(Claims{Subject: strconv.FormatUint(userID, 10)}, c.refreshSecret, c.refreshTTL)
}

// DecodeAccess verifies a token under the access secret.
func (c *Codec) DecodeAccess(token string) (Claims, error) {
	return decode(token, c.accessSecret)
}

// DecodeRefresh verifies a token under the refresh secret.
func (c *Codec) DecodeRefresh(token string) (Claims, error) {
	return decode(token, c.refreshSecret)
}

// encode signs an HS256 JWT. The expiry is absolute, computed here from the
// current UTC time plus the TTL. The jti claim is random, so two tokens
// issued for the same user within the same second still differ; the registry
// keys rows by token value and relies on that. The role claim is only
// included when set so refresh payloads stay minimal.
func encode(cl Claims, secret string, ttl time.Duration) (string, error) {
	jti, err := randomHex(8)
	if err != nil {
		return "", err
	}
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": cl.Subject,
		"exp": exp.Unix(),
		"jti": jti,
	}
	if cl.Role != "" {
		claims["role"] = cl.Role
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// decode parses and verifies a token in one pass: structure, HMAC signature
// and expiry. Every failure collapses into ErrInvalidToken; this function
// never panics on malformed input.
func decode(token, secret string) (Claims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; without this check a
		// token could name its own verification algorithm.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, ErrInvalidToken
	}
	exp, ok := mc["exp"].(float64)
	if !ok {
		// jwt.Parse only validates exp when present; tokens without one are
		// not something this service ever issues.
		return Claims{}, ErrInvalidToken
	}
	cl := Claims{Subject: sub, ExpiresAt: time.Unix(int64(exp), 0).UTC()}
	if role, ok := mc["role"].(string); ok {
		cl.Role = role
	}
	return cl, nil
}
