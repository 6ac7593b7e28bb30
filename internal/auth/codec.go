package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rollabike/storefront/internal/domain"
)

// DefaultTokenTTL bounds how long a leaked token stays usable without
// needing revocation infrastructure.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the decoded token payload: the identity email plus whatever
// profile fields were signed into the credential at issuance.
type Claims map[string]any

// Email returns the identity claim, or "" if absent or not a string.
func (c Claims) Email() string {
	email, _ := c["email"].(string)
	return email
}

// Codec issues and verifies HS256 tokens with a process-wide secret.
// The secret is injected once at construction and never mutated.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: secret, ttl: ttl}
}

// Issue signs claims with the process-wide secret, embedding iat and exp.
// The email claim is required; everything else is carried as-is.
func (c *Codec) Issue(claims Claims) (string, error) {
	if claims.Email() == "" {
		return "", errors.New("issue token: missing email claim")
	}

	now := time.Now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(c.ttl).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the decoded claims.
// Any failure collapses into domain.ErrTokenInvalid; the cause is not
// surfaced to callers.
func (c *Codec) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	claims := Claims{}
	for k, v := range mc {
		claims[k] = v
	}
	return claims, nil
}
