// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package odds is the upstream client for The Odds API. Auth is an
// "apiKey" query parameter. A conservative token-bucket limiter sits in
// front of the Fetcher as a backstop since the quota headers aren't
// documented (spec.md §9); a 429 still flows through the Fetcher's
// standard backoff.
package odds

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

type Client struct {
	BaseURL string
	APIKey  string
	Fetcher *httpfetch.Fetcher
	Timeout time.Duration
	Limiter *rate.Limiter
}

// NewClient builds an Odds API client. The limiter defaults to 5 requests/
// second with a burst of 10, sized well above typical documented quotas so
// it acts purely as a backstop, never a throttle.
func NewClient(fetcher *httpfetch.Fetcher, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  apiKey,
		Fetcher: fetcher,
		Timeout: timeout,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return err
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", c.APIKey)
	u := c.BaseURL + path + "?" + query.Encode()
	return c.Fetcher.FetchJSON(ctx, httpfetch.Request{URL: u, Timeout: c.Timeout}, v)
}

// Odds fetches odds for a sport key across the given markets/regions/format.
func (c *Client) Odds(ctx context.Context, sport, markets, regions, oddsFormat string) (OddsResponse, error) {
	q := url.Values{"markets": {markets}, "regions": {regions}}
	if oddsFormat != "" {
		q.Set("oddsFormat", oddsFormat)
	}
	var out OddsResponse
	if err := c.get(ctx, fmt.Sprintf("/sports/%s/odds", sport), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventOdds fetches per-event odds (used for player props) for one event id.
func (c *Client) EventOdds(ctx context.Context, sport, eventID, markets, regions, oddsFormat string) (*EventOddsResponse, error) {
	q := url.Values{"markets": {markets}, "regions": {regions}}
	if oddsFormat != "" {
		q.Set("oddsFormat", oddsFormat)
	}
	var out EventOddsResponse
	if err := c.get(ctx, fmt.Sprintf("/sports/%s/events/%s/odds", sport, eventID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
