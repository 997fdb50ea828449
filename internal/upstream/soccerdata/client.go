// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package soccerdata is the upstream client for SoccerDataAPI, which
// authenticates via an "auth_token" query parameter. It covers the
// per-team and per-match lookups that complement football-data.org's
// competition-scoped endpoints.
package soccerdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
)

const defaultBaseURL = "https://api.soccerdataapi.com"

type Client struct {
	BaseURL string
	Token   string
	Fetcher *httpfetch.Fetcher
	Timeout time.Duration
}

func NewClient(fetcher *httpfetch.Fetcher, token string, timeout time.Duration) *Client {
	return &Client{BaseURL: defaultBaseURL, Token: token, Fetcher: fetcher, Timeout: timeout}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("auth_token", c.Token)
	u := c.BaseURL + path + "?" + query.Encode()
	return c.Fetcher.FetchJSON(ctx, httpfetch.Request{URL: u, Timeout: c.Timeout}, v)
}

// TeamMatches fetches a team's recent/upcoming matches.
func (c *Client) TeamMatches(ctx context.Context, teamID string, limit int) (*MatchesResponse, error) {
	q := url.Values{"team_id": {teamID}}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var out MatchesResponse
	if err := c.get(ctx, "/team-matches/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchDetails fetches a single match by id, including live event detail.
func (c *Client) MatchDetails(ctx context.Context, matchID string) (*MatchDetailResponse, error) {
	q := url.Values{"match_id": {matchID}}
	var out MatchDetailResponse
	if err := c.get(ctx, "/match/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
