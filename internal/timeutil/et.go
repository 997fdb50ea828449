// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package timeutil implements the ET (America/New_York) normalization rules
// every tool handler depends on. Every timestamp exposed downstream is
// either a date_et (calendar day) or an et_datetime (instant); both are
// always produced here, never via a naked time.Parse at a call site.
package timeutil

import (
	"fmt"
	"time"
)

// Location is the single America/New_York *time.Location shared by the
// whole process. LoadLocation is not free; load it once.
var Location = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// The tzdata database is expected to be present in every deployment
		// target; if it isn't, fail loudly rather than silently using UTC.
		panic(fmt.Sprintf("timeutil: failed to load %s: %v", name, err))
	}
	return loc
}

// FieldError reports that a required temporal field could not be normalized.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("normalization error: field %q is empty or unparseable", e.Field)
}

// ParseET resolves a provider date/datetime string to an ET instant per
// spec.md §4.2:
//   - a 10-character YYYY-MM-DD string resolves to ET midnight of that day.
//   - any other string is parsed as ISO-8601; if it carries no zone, UTC is
//     assumed; the instant is then rendered in America/New_York.
//
// field names the JSON field being normalized, used only for FieldError.
func ParseET(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &FieldError{Field: field}
	}

	if len(raw) == 10 {
		t, err := time.ParseInLocation("2006-01-02", raw, Location)
		if err == nil {
			return t, nil
		}
		// Fall through: a 10-char string that isn't a plain date (unlikely,
		// but not every upstream is disciplined) is re-tried as ISO-8601.
	}

	t, err := parseISO8601(raw)
	if err != nil {
		return time.Time{}, &FieldError{Field: field}
	}
	return t.In(Location), nil
}

// parseISO8601 parses an ISO-8601 string, assuming UTC when no zone is present.
func parseISO8601(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if t.Location() == time.UTC || !hasZoneDesignator(layout) {
				return t.UTC(), nil
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timeutil: cannot parse %q as ISO-8601", raw)
}

func hasZoneDesignator(layout string) bool {
	switch layout {
	case time.RFC3339Nano, time.RFC3339:
		return true
	default:
		return false
	}
}

// DateET formats an ET instant as its calendar-day string (YYYY-MM-DD).
func DateET(t time.Time) string {
	return t.In(Location).Format("2006-01-02")
}

// TodayET returns today's calendar date in ET, as a YYYY-MM-DD string.
func TodayET(now time.Time) string {
	return DateET(now)
}

// IsMidnightET reports whether t, rendered in ET, falls exactly on
// 00:00:00 — the "date known, time unknown" case called out in spec.md §9
// for MLB game-log entries observed with time 00:00:00-04:00.
func IsMidnightET(t time.Time) bool {
	et := t.In(Location)
	return et.Hour() == 0 && et.Minute() == 0 && et.Second() == 0
}
