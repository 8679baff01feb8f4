// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"

	"github.com/apex/log"
)

// warner dispatches recoverable warnings and counts them.
type warner struct {
	handler func(w Warning)
	count   int
}

// newWarner returns a warner that forwards to handler, or to apex/log when handler is nil.
func newWarner(handler func(w Warning)) *warner {
	if handler == nil {
		handler = logWarning
	}

	return &warner{handler: handler}
}

// warnf raises one warning for entry.
func (w *warner) warnf(kind WarningKind, entry string, format string, args ...any) {
	if w == nil {
		return
	}

	w.count++
	w.handler(Warning{
		Kind:    kind,
		Entry:   entry,
		Message: fmt.Sprintf(format, args...),
	})
}

// logWarning is the default warning handler.
func logWarning(w Warning) {
	log.WithFields(log.Fields{
		"kind":  string(w.Kind),
		"entry": w.Entry,
	}).Warn(w.Message)
}
