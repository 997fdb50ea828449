// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tools

import (
	"encoding/json"

	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
)

// Decode unmarshals raw into dst, reporting a ValidationError (never a bare
// decode error) on malformed arguments — the central decoder called for in
// spec.md §9, replacing a dynamically-typed arguments mapping with one
// typed struct per tool.
func Decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &toolerr.ValidationError{Field: "arguments", Reason: err.Error()}
	}
	return nil
}

// RequireNonEmpty returns a ValidationError if s is empty.
func RequireNonEmpty(field, s string) error {
	if s == "" {
		return &toolerr.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// RequirePositive returns a ValidationError if n is not > 0.
func RequirePositive(field string, n int) error {
	if n <= 0 {
		return &toolerr.ValidationError{Field: field, Reason: "must be a positive integer"}
	}
	return nil
}

// RequireNonEmptySlice returns a ValidationError if the slice is empty.
func RequireNonEmptySlice[T any](field string, s []T) error {
	if len(s) == 0 {
		return &toolerr.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// RequireOneOf returns a ValidationError if s isn't in allowed.
func RequireOneOf(field, s string, allowed ...string) error {
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return &toolerr.ValidationError{Field: field, Reason: "must be one of " + joinQuoted(allowed)}
}

func joinQuoted(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += "\"" + s + "\""
	}
	return out
}
