// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package navigation

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/specportal/specportal/pkg/types"
)

// Search returns operations whose id, summary, path or description, or
// whose spec title, contains query. Matching is a case-folded substring
// scan in spec and operation order. limit <= 0 uses the default limit.
func (n *Navigator) Search(ctx context.Context, lang, version, query string, limit int) []types.SearchHit {
	hits := []types.SearchHit{}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return hits
	}
	if limit <= 0 {
		limit = n.searchLimit
	}

	for _, s := range n.source.ListSpecs(ctx, lang, version) {
		titleMatch := strings.Contains(fold.String(s.Title), needle)
		for _, op := range s.Operations {
			if !titleMatch && !operationMatches(fold, op, needle) {
				continue
			}
			hits = append(hits, types.SearchHit{
				SpecID:         s.ID,
				SpecTitle:      s.Title,
				NavigationPath: NavigationPath(lang, version, s.ID),
				Operation:      op,
			})
			if len(hits) >= limit {
				return hits
			}
		}
	}
	return hits
}

func operationMatches(fold cases.Caser, op types.Operation, needle string) bool {
	for _, field := range []string{op.OperationID, op.Summary, op.Path, op.Description} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

func languageTag(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}
