// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package toolerr defines the error taxonomy of spec.md §7. Each kind is a
// distinct exported type so the router and tool handlers can classify an
// error with errors.As instead of string-sniffing a message.
package toolerr

import "fmt"

// ValidationError reports a caller-supplied argument that failed schema
// validation: missing, wrong type, or out of the documented range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// UpstreamHTTPError reports a non-retryable upstream HTTP status (a 4xx
// other than 429, or any other non-2xx status outside the retry set).
type UpstreamHTTPError struct {
	Status     int
	BodyPrefix string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("upstream http error: status %d: %s", e.Status, e.BodyPrefix)
}

// UpstreamTransient reports a retryable upstream failure (429/5xx/timeout/
// connection error) whose retries were exhausted.
type UpstreamTransient struct {
	Reason string
}

func (e *UpstreamTransient) Error() string {
	return fmt.Sprintf("upstream transient error: %s", e.Reason)
}

// UpstreamDecodeError reports an upstream body that was not valid JSON or
// did not match the expected shape.
type UpstreamDecodeError struct {
	Reason string
}

func (e *UpstreamDecodeError) Error() string {
	return fmt.Sprintf("upstream decode error: %s", e.Reason)
}

// NormalizationError reports a required field that could not be normalized.
type NormalizationError struct {
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization error: %s", e.Field)
}

// ConsensusError reports that every expert call failed, so no distribution
// could be formed.
type ConsensusError struct {
	Reason string
}

func (e *ConsensusError) Error() string {
	return fmt.Sprintf("consensus error: %s", e.Reason)
}

// InternalError wraps a programming bug. Its wire-facing message is always
// the stable string below; the real cause is logged out-of-band by the
// caller before wrapping.
type InternalError struct {
	cause error
}

// NewInternalError wraps cause behind the redacted InternalError message.
func NewInternalError(cause error) *InternalError {
	return &InternalError{cause: cause}
}

func (e *InternalError) Error() string {
	return "internal error"
}

// Unwrap exposes the underlying cause for errors.Is/errors.As and for
// out-of-band logging, without leaking it onto the wire.
func (e *InternalError) Unwrap() error {
	return e.cause
}
