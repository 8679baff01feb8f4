// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

const (
	// maxSanitizedNameLen limits one name to a common filesystem-safe length.
	maxSanitizedNameLen = 240
	// emptyNamePlaceholder replaces names that sanitize to nothing.
	emptyNamePlaceholder = "_"
	// forbiddenNameChars are replaced with "_" in output names.
	forbiddenNameChars = `<>:"/\|?*`
)

var (
	// reservedNames contains case-insensitive names that must never reach the filesystem.
	reservedNames = map[string]struct{}{
		".":    {},
		"..":   {},
		"aux":  {},
		"com1": {},
		"com2": {},
		"com3": {},
		"com4": {},
		"com5": {},
		"com6": {},
		"com7": {},
		"com8": {},
		"com9": {},
		"con":  {},
		"lpt1": {},
		"lpt2": {},
		"lpt3": {},
		"lpt4": {},
		"lpt5": {},
		"lpt6": {},
		"lpt7": {},
		"lpt8": {},
		"lpt9": {},
		"nul":  {},
		"prn":  {},
	}
)

// SanitizeName rewrites one file or directory name to a filesystem-safe form.
// The result is never empty, never reserved, holds no forbidden characters or
// C0 controls (U+0000 to U+001F), and has no surrounding whitespace or trailing period.
func SanitizeName(name string) string {
	name = trimNameEdges(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(forbiddenNameChars, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := b.String()
	if len(sanitized) > maxSanitizedNameLen {
		sanitized = trimNameEdges(shortenNameDeterministic(sanitized, maxSanitizedNameLen))
	}

	if isReservedName(sanitized) {
		sanitized += "_"
	}
	if sanitized == "" {
		sanitized = emptyNamePlaceholder
	}

	return sanitized
}

// trimNameEdges strips surrounding whitespace and trailing periods until stable.
func trimNameEdges(name string) string {
	for {
		trimmed := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(name), "."))
		if trimmed == name {
			return name
		}

		name = trimmed
	}
}

// isReservedName reports whether name matches a reserved name case-insensitively.
func isReservedName(name string) bool {
	_, ok := reservedNames[strings.ToLower(name)]
	return ok
}

// withNumericSuffix appends "_N" to name.
func withNumericSuffix(name string, n int) string {
	return name + "_" + strconv.Itoa(n)
}

// shortenNameDeterministic shortens a long name while keeping a stable identity suffix.
func shortenNameDeterministic(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())
	prefix := value[:max(maxLen-len(hashPart), 1)]

	// Never cut a multi-byte rune in half.
	prefix = strings.ToValidUTF8(prefix, "")

	return prefix + hashPart
}
