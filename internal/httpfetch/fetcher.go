// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package httpfetch implements the single retry/backoff policy of the
// system (spec.md §4.1): fetch_json performs one HTTP GET, retrying only on
// 429/500/502/503/504 or a transport error, up to 4 attempts total, with an
// exponential 0.8s/1.6s/3.2s delay sequence. The delay source is injectable
// so tests run in virtual time, grounded on the retry(policy, op) pattern
// called for in spec.md §9.
package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
)

// Sleeper abstracts time.Sleep so retry delays can be faked in tests.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// realSleeper sleeps for real, honoring context cancellation.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealSleeper is the production Sleeper.
var RealSleeper Sleeper = realSleeper{}

// backoffSchedule is the fixed delay sequence of spec.md §4.1: 0.8s, 1.6s, 3.2s.
var backoffSchedule = []time.Duration{
	800 * time.Millisecond,
	1600 * time.Millisecond,
	3200 * time.Millisecond,
}

const maxAttempts = 4

const bodyPrefixLen = 180

// Fetcher performs fetch_json calls; one Fetcher is shared by all upstream clients.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	Sleeper    Sleeper

	// Cache is the optional same-day URL cache of spec.md §5. Nil disables
	// caching; GET requests are the only ones ever cached.
	Cache *Cache
}

// NewFetcher builds a Fetcher with sane production defaults. Caching is
// disabled; call EnableCache to opt in.
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{},
		UserAgent:  userAgent,
		Sleeper:    RealSleeper,
	}
}

// EnableCache turns on the optional same-day URL cache with the given TTL.
func (f *Fetcher) EnableCache(ttl time.Duration) {
	f.Cache = NewCache(ttl)
}

// Request describes a single fetch_json call.
type Request struct {
	Method  string // defaults to GET
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// FetchJSON performs the GET with retry/backoff and decodes the JSON body
// into v. Each attempt gets its own per-call timeout derived from req.Timeout.
func (f *Fetcher) FetchJSON(ctx context.Context, req Request, v any) error {
	if f.Cache != nil && (req.Method == "" || req.Method == http.MethodGet) {
		if body, ok := f.Cache.Get(req.URL); ok {
			return decodeJSON(body, v)
		}
	}

	body, err := f.fetchBody(ctx, req)
	if err != nil {
		return err
	}
	if f.Cache != nil && (req.Method == "" || req.Method == http.MethodGet) {
		f.Cache.Set(req.URL, body)
	}
	return decodeJSON(body, v)
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &toolerr.UpstreamDecodeError{Reason: err.Error()}
	}
	return nil
}

func (f *Fetcher) fetchBody(ctx context.Context, req Request) ([]byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffSchedule[attempt-1]
			if err := f.Sleeper.Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, status, err := f.doOnce(ctx, method, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(status, err) {
			return nil, err
		}
	}
	if httpErr, ok := lastErr.(*toolerr.UpstreamHTTPError); ok {
		return nil, &toolerr.UpstreamTransient{Reason: fmt.Sprintf("status %d after %d attempts: %s", httpErr.Status, maxAttempts, httpErr.BodyPrefix)}
	}
	return nil, lastErr
}

func (f *Fetcher) doOnce(ctx context.Context, method string, req Request) ([]byte, int, error) {
	callCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, method, req.URL, nil)
	if err != nil {
		return nil, 0, &toolerr.UpstreamTransient{Reason: err.Error()}
	}
	if f.UserAgent != "" {
		httpReq.Header.Set("User-Agent", f.UserAgent)
	}
	for k, val := range req.Headers {
		httpReq.Header.Set(k, val)
	}

	resp, err := f.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, 0, &toolerr.UpstreamTransient{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &toolerr.UpstreamTransient{Reason: err.Error()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, resp.StatusCode, nil
	}

	prefix := body
	if len(prefix) > bodyPrefixLen {
		prefix = prefix[:bodyPrefixLen]
	}
	return nil, resp.StatusCode, &toolerr.UpstreamHTTPError{
		Status:     resp.StatusCode,
		BodyPrefix: string(bytes.TrimSpace(prefix)),
	}
}

// isRetryable implements the retry predicate of spec.md §4.1: retry on 429
// or any 5xx in {500,502,503,504}, or on a transport-level error (status 0).
func isRetryable(status int, err error) bool {
	if status == 0 {
		var transient *toolerr.UpstreamTransient
		return errorsAsTransient(err, &transient)
	}
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func errorsAsTransient(err error, target **toolerr.UpstreamTransient) bool {
	t, ok := err.(*toolerr.UpstreamTransient)
	if !ok {
		return false
	}
	*target = t
	return true
}

// BuildQueryError is a convenience wrapper used by upstream clients to turn
// a URL-building failure into the same error taxonomy as a fetch failure.
func BuildQueryError(reason string) error {
	return &toolerr.UpstreamTransient{Reason: fmt.Sprintf("building request: %s", reason)}
}
