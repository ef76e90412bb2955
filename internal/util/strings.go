// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared string helpers.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms are words rendered fully upper-case by HumanizeServiceName.
var acronyms = map[string]bool{
	"api":  true,
	"id":   true,
	"kyc":  true,
	"otp":  true,
	"sms":  true,
	"url":  true,
	"http": true,
	"json": true,
}

// SanitizeIdentifier turns a path template into an identifier fragment.
// Braces are dropped, every run of non-alphanumeric characters becomes a
// single underscore and leading/trailing underscores are trimmed.
// For example: "/users/{id}/orders" returns "users_id_orders".
func SanitizeIdentifier(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)

	var sb strings.Builder
	sb.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pendingSep = false
			sb.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return sb.String()
}

// HumanizeServiceName converts a service directory name into a display name.
// For example: "payment-api" returns "Payment API".
func HumanizeServiceName(id string) string {
	fields := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return id
	}

	caser := cases.Title(language.English)
	for i, f := range fields {
		if acronyms[strings.ToLower(f)] {
			fields[i] = strings.ToUpper(f)
			continue
		}
		fields[i] = caser.String(f)
	}
	return strings.Join(fields, " ")
}

