// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package normalize converts provider-shaped JSON into internal/model
// entities (spec.md §4.2). One file per upstream holds the reshape
// functions; this file holds the numeric coercion rule shared by all of them.
package normalize

import (
	"regexp"
	"strconv"

	"github.com/AleutianAI/sports-tool-server/internal/model"
)

var integerShaped = regexp.MustCompile(`^-?[0-9]+$`)

// CoerceInt implements spec.md §4.2's numeric coercion rule: an integer
// stays an integer, an integer-shaped string becomes one, null/missing and
// the empty string become null, a non-integral number stays a float, any
// other string and a bool pass through as a string, and any other type
// becomes null.
func CoerceInt(raw any) model.StatValue {
	switch v := raw.(type) {
	case nil:
		return model.StatValue{IsNull: true}
	case float64:
		n := int64(v)
		if float64(n) == v {
			return model.StatValue{IntValue: &n}
		}
		return model.StatValue{FloatValue: &v}
	case int:
		n := int64(v)
		return model.StatValue{IntValue: &n}
	case int64:
		return model.StatValue{IntValue: &v}
	case string:
		if v == "" {
			return model.StatValue{IsNull: true}
		}
		if integerShaped.MatchString(v) {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return model.StatValue{IntValue: &n}
			}
		}
		s := v
		return model.StatValue{StringValue: &s}
	case bool:
		s := strconv.FormatBool(v)
		return model.StatValue{StringValue: &s}
	default:
		return model.StatValue{IsNull: true}
	}
}
