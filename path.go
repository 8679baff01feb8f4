// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import "strings"

// NormalizePath splits an archive directory path into ordered segments.
// Both "/" and "\" separate segments; empty and whitespace-only segments are dropped.
func NormalizePath(raw string) []string {
	parts := strings.FieldsFunc(raw, isPathSeparator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}

		segments = append(segments, part)
	}

	return segments
}

// normalizeMatchPath converts an entry location to the slash form used by filter rules.
func normalizeMatchPath(dir string, name string) string {
	segments := NormalizePath(dir)
	segments = append(segments, NormalizePath(name)...)
	return strings.Join(segments, "/")
}

// isPathSeparator reports whether r separates archive path segments.
func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
