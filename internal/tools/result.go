// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tools implements the per-tool handlers of spec.md §4.3: one file
// per tool family, registered into a name-keyed dispatch table at startup.
package tools

import "time"

// Meta carries the timestamp and optional note of a Result, per spec.md §6.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Result is the canonical ToolResult envelope of spec.md §3/§6. Exactly one
// of Data/Error is populated, enforced by the constructors below rather
// than by callers setting fields directly.
type Result struct {
	OK        bool   `json:"ok"`
	ContentMD string `json:"content_md"`
	Data      any    `json:"data,omitempty"`
	Meta      Meta   `json:"meta"`
	Error     string `json:"error,omitempty"`
}

// Ok builds a successful Result.
func Ok(contentMD string, data any, note string) Result {
	return Result{
		OK:        true,
		ContentMD: contentMD,
		Data:      data,
		Meta:      Meta{Timestamp: time.Now().UTC(), Note: note},
	}
}

// Fail builds a failed Result; Data is always absent.
func Fail(err error) Result {
	return Result{
		OK:    false,
		Meta:  Meta{Timestamp: time.Now().UTC()},
		Error: err.Error(),
	}
}
