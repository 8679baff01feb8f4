// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entryFilter selects entries by compiled path rules.
type entryFilter struct {
	matcher *pathrules.Matcher
}

// newEntryFilter compiles rules. It returns nil when no usable rule remains,
// and a nil filter includes everything.
func newEntryFilter(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryFilter, error) {
	rules = normalizeFilterRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &entryFilter{matcher: matcher}, nil
}

// normalizeFilterRules converts patterns to slash form and drops empty ones.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimSpace(rule.Pattern)
		pattern = strings.ReplaceAll(pattern, `\`, `/`)
		pattern = strings.TrimPrefix(pattern, "./")
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// includes reports whether entry passes the filter.
func (f *entryFilter) includes(entry *EntryInfo) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	candidate := normalizeMatchPath(entry.Dir, entry.Name)
	if candidate == "" {
		return true
	}

	return f.matcher.Included(candidate, false)
}
