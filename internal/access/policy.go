// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package access maps portal paths to visibility policies and checks bearer
// tokens against them.
package access

import (
	"fmt"
	"sort"
	"strings"
)

// PolicyKind is the kind of a visibility policy.
type PolicyKind string

const (
	// KindPublic needs no token.
	KindPublic PolicyKind = "public"

	// KindAuthenticated needs any valid token.
	KindAuthenticated PolicyKind = "authenticated"

	// KindRole needs a valid token carrying a role.
	KindRole PolicyKind = "role"
)

// Policy is the visibility of a path.
type Policy struct {
	Kind PolicyKind
	Role string
}

// Public is the policy of paths no rule matches.
var Public = Policy{Kind: KindPublic}

// ParsePolicy parses "public", "authenticated" or "role:<name>".
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == string(KindPublic):
		return Public, nil
	case s == string(KindAuthenticated):
		return Policy{Kind: KindAuthenticated}, nil
	case strings.HasPrefix(s, "role:"):
		role := strings.TrimSpace(strings.TrimPrefix(s, "role:"))
		if role == "" {
			return Policy{}, fmt.Errorf("policy %q names no role", s)
		}
		return Policy{Kind: KindRole, Role: role}, nil
	}
	return Policy{}, fmt.Errorf("unknown policy %q (expected public, authenticated or role:<name>)", s)
}

// String returns the textual form accepted by ParsePolicy.
func (p Policy) String() string {
	if p.Kind == KindRole {
		return "role:" + p.Role
	}
	if p.Kind == "" {
		return string(KindPublic)
	}
	return string(p.Kind)
}

// Rule maps a path prefix to a policy.
type Rule struct {
	Prefix string
	Policy Policy
}

// Rules is a set of visibility rules.
type Rules []Rule

// ParseRules builds rules from prefix to policy text, as read from config.
func ParseRules(m map[string]string) (Rules, error) {
	rules := make(Rules, 0, len(m))
	for prefix, text := range m {
		if prefix == "" {
			return nil, fmt.Errorf("rule for policy %q has an empty prefix", text)
		}
		p, err := ParsePolicy(text)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", prefix, err)
		}
		rules = append(rules, Rule{Prefix: prefix, Policy: p})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Prefix < rules[j].Prefix })
	return rules, nil
}

// Match returns the policy of the longest rule prefix of path, or Public
// when no rule matches.
func (r Rules) Match(path string) Policy {
	best := -1
	policy := Public
	for _, rule := range r {
		if len(rule.Prefix) > best && strings.HasPrefix(path, rule.Prefix) {
			best = len(rule.Prefix)
			policy = rule.Policy
		}
	}
	return policy
}
