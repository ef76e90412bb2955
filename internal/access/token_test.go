// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package access

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func testRules(t *testing.T) Rules {
	t.Helper()
	rules, err := ParseRules(map[string]string{
		"/api/specs/internal-api": "authenticated",
		"/api/specs/partner-api":  "role:partner",
	})
	require.NoError(t, err)
	return rules
}

func request(path, token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestMinter_MintAndVerify(t *testing.T) {
	token, err := NewMinter(testSecret, "specportal").Mint("dev@example.com", []string{"partner"}, time.Hour)
	require.NoError(t, err)

	claims, err := NewAuthorizer(nil, testSecret, "specportal").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", claims.Subject)
	assert.Equal(t, "specportal", claims.Issuer)
	assert.True(t, claims.HasRole("partner"))
	assert.False(t, claims.HasRole("admin"))

	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
}

func TestMinter_Errors(t *testing.T) {
	_, err := NewMinter(nil, "").Mint("dev", nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = NewMinter(testSecret, "").Mint("", nil, time.Hour)
	assert.Error(t, err)

	_, err = NewMinter(testSecret, "").Mint("dev", nil, 0)
	assert.Error(t, err)
}

func TestAuthorizer_Authorize(t *testing.T) {
	minter := NewMinter(testSecret, "")
	partner, err := minter.Mint("p", []string{"partner"}, time.Hour)
	require.NoError(t, err)
	reader, err := minter.Mint("r", nil, time.Hour)
	require.NoError(t, err)
	foreign, err := NewMinter([]byte("other"), "").Mint("x", []string{"partner"}, time.Hour)
	require.NoError(t, err)

	auth := NewAuthorizer(testRules(t), testSecret, "")

	tests := []struct {
		name    string
		path    string
		token   string
		wantErr error
	}{
		{"public without token", "/api/specs/payment-api/openapi.json", "", nil},
		{"authenticated without token", "/api/specs/internal-api/openapi.json", "", ErrUnauthenticated},
		{"authenticated with token", "/api/specs/internal-api/openapi.json", reader, nil},
		{"role without role", "/api/specs/partner-api/openapi.json", reader, ErrForbidden},
		{"role with role", "/api/specs/partner-api/openapi.json", partner, nil},
		{"bad signature", "/api/specs/internal-api/openapi.json", foreign, ErrUnauthenticated},
		{"garbage token", "/api/specs/internal-api/openapi.json", "not.a.token", ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Authorize(request(tt.path, tt.token))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthorizer_ExpiredToken(t *testing.T) {
	minter := NewMinter(testSecret, "")
	minter.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := minter.Mint("old", nil, time.Hour)
	require.NoError(t, err)

	_, err = NewAuthorizer(testRules(t), testSecret, "").Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAuthorizer_IssuerMismatch(t *testing.T) {
	token, err := NewMinter(testSecret, "someone-else").Mint("dev", nil, time.Hour)
	require.NoError(t, err)

	_, err = NewAuthorizer(nil, testSecret, "specportal").Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthorizer_NoSecret(t *testing.T) {
	_, err := NewAuthorizer(testRules(t), nil, "").Authorize(request("/api/specs/internal-api/x", "abc"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", tt.header)
			token, ok := BearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{"a"}})
	c, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.True(t, c.HasRole("a"))
}
