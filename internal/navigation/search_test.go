// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/pkg/types"
)

func searchSource() stubSource {
	return stubSource{specs: []*discovery.APISpec{
		{
			ID:               "payment-api",
			Title:            "Payment API",
			VersionDirectory: "v2",
			Operations: []types.Operation{
				{OperationID: "createPayment", Method: "POST", Path: "/payments", Summary: "Create payment"},
				{OperationID: "listRefunds", Method: "GET", Path: "/refunds", Summary: "List refunds", Description: "Refunds issued for a PAYMENT"},
			},
		},
		{
			ID:               "kyc-api",
			Title:            "Identity Checks",
			VersionDirectory: "v2",
			Operations: []types.Operation{
				{OperationID: "startCheck", Method: "POST", Path: "/checks", Summary: "Start check"},
				{OperationID: "getCheck", Method: "GET", Path: "/checks/{id}", Summary: "Get check"},
			},
		},
	}}
}

func TestNavigator_Search(t *testing.T) {
	nav := New(searchSource())

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"summary and description case folded", "payment", []string{"createPayment", "listRefunds"}},
		{"path", "/checks/{", []string{"getCheck"}},
		{"operation id", "STARTCHECK", []string{"startCheck"}},
		{"spec title matches every operation", "identity", []string{"startCheck", "getCheck"}},
		{"no match", "invoice", []string{}},
		{"blank query", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := nav.Search(context.Background(), "en", "v2", tt.query, 0)
			got := []string{}
			for _, h := range hits {
				got = append(got, h.Operation.OperationID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNavigator_Search_HitFields(t *testing.T) {
	hits := New(searchSource()).Search(context.Background(), "ar", "v2", "refund", 0)

	require.Len(t, hits, 1)
	assert.Equal(t, "payment-api", hits[0].SpecID)
	assert.Equal(t, "Payment API", hits[0].SpecTitle)
	assert.Equal(t, "/ar/api/v2/payment-api", hits[0].NavigationPath)
}

func TestNavigator_Search_Limit(t *testing.T) {
	nav := New(searchSource(), WithSearchLimit(1))

	assert.Len(t, nav.Search(context.Background(), "en", "v2", "check", 0), 1)
	assert.Len(t, nav.Search(context.Background(), "en", "v2", "check", 5), 2)
}
