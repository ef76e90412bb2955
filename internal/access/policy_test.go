// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
		wantErr  bool
	}{
		{"public", Public, false},
		{"authenticated", Policy{Kind: KindAuthenticated}, false},
		{"role:partner", Policy{Kind: KindRole, Role: "partner"}, false},
		{" role: admin ", Policy{Kind: KindRole, Role: "admin"}, false},
		{"role:", Policy{}, true},
		{"private", Policy{}, true},
		{"", Policy{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "public", Policy{}.String())
	assert.Equal(t, "authenticated", Policy{Kind: KindAuthenticated}.String())
	assert.Equal(t, "role:partner", Policy{Kind: KindRole, Role: "partner"}.String())
}

func TestRules_MatchLongestPrefix(t *testing.T) {
	rules, err := ParseRules(map[string]string{
		"/api/specs":                   "authenticated",
		"/api/specs/partner-api":       "role:partner",
		"/api/specs/partner-api/intro": "public",
	})
	require.NoError(t, err)

	tests := []struct {
		path     string
		expected string
	}{
		{"/api/header", "public"},
		{"/api/specs", "authenticated"},
		{"/api/specs/payment-api/openapi.json", "authenticated"},
		{"/api/specs/partner-api/openapi.json", "role:partner"},
		{"/api/specs/partner-api/intro", "public"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, rules.Match(tt.path).String())
		})
	}
}

func TestRules_EmptyMatchesPublic(t *testing.T) {
	assert.Equal(t, Public, Rules(nil).Match("/anything"))
}

func TestParseRules_Errors(t *testing.T) {
	_, err := ParseRules(map[string]string{"/api": "nobody"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "/api")

	_, err = ParseRules(map[string]string{"": "public"})
	assert.Error(t, err)
}
