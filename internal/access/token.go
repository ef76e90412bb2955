// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package access

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated is returned when a path needs a token and none, or
	// an invalid one, was presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when a valid token lacks the required role.
	ErrForbidden = errors.New("access forbidden")

	// ErrNoSecret is returned when signing without a configured secret.
	ErrNoSecret = errors.New("no signing secret configured")
)

// Claims are the token claims understood by the portal.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role string) bool {
	return c != nil && slices.Contains(c.Roles, role)
}

type claimsKey struct{}

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// Authorizer checks requests against visibility rules.
type Authorizer struct {
	rules  Rules
	secret []byte
	issuer string
	now    func() time.Time
}

// NewAuthorizer creates an Authorizer. Tokens are HS256 signed with secret;
// a non-empty issuer must match the iss claim.
func NewAuthorizer(rules Rules, secret []byte, issuer string) *Authorizer {
	return &Authorizer{
		rules:  rules,
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}
}

// Policy returns the policy that applies to path.
func (a *Authorizer) Policy(path string) Policy {
	return a.rules.Match(path)
}

// Authorize checks r against the policy of its path. Public paths return
// nil claims. The error wraps ErrUnauthenticated or ErrForbidden.
func (a *Authorizer) Authorize(r *http.Request) (*Claims, error) {
	policy := a.Policy(r.URL.Path)
	if policy.Kind == KindPublic || policy.Kind == "" {
		return nil, nil
	}

	token, ok := BearerToken(r)
	if !ok {
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	}

	claims, err := a.Verify(token)
	if err != nil {
		return nil, err
	}

	if policy.Kind == KindRole && !claims.HasRole(policy.Role) {
		return claims, fmt.Errorf("%w: role %q required", ErrForbidden, policy.Role)
	}
	return claims, nil
}

// Verify parses and validates a signed token.
func (a *Authorizer) Verify(token string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrNoSecret)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return claims, nil
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Minter signs development tokens for local previews of restricted pages.
type Minter struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewMinter creates a Minter.
func NewMinter(secret []byte, issuer string) *Minter {
	return &Minter{secret: secret, issuer: issuer, now: time.Now}
}

// Mint signs a token for subject carrying roles, valid for ttl.
func (m *Minter) Mint(subject string, roles []string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := m.now()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
