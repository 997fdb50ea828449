// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package footballdata is the upstream client for football-data.org, which
// authenticates via the X-Auth-Token header.
package footballdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
)

const defaultBaseURL = "https://api.football-data.org/v4"

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
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.Fetcher.FetchJSON(ctx, httpfetch.Request{
		URL:     u,
		Timeout: c.Timeout,
		Headers: map[string]string{"X-Auth-Token": c.Token},
	}, v)
}

// Competitions lists the available competitions.
func (c *Client) Competitions(ctx context.Context) (*CompetitionsResponse, error) {
	var out CompetitionsResponse
	if err := c.get(ctx, "/competitions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Matches fetches matches for a competition, optionally filtered.
func (c *Client) Matches(ctx context.Context, competitionID, dateFrom, dateTo, status, matchday string) (*MatchesResponse, error) {
	q := url.Values{}
	if dateFrom != "" {
		q.Set("dateFrom", dateFrom)
	}
	if dateTo != "" {
		q.Set("dateTo", dateTo)
	}
	if status != "" {
		q.Set("status", status)
	}
	if matchday != "" {
		q.Set("matchday", matchday)
	}
	var out MatchesResponse
	if err := c.get(ctx, fmt.Sprintf("/competitions/%s/matches", competitionID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Standings fetches the standings table for a competition/season.
func (c *Client) Standings(ctx context.Context, competitionID, season string) (*StandingsResponse, error) {
	q := url.Values{}
	if season != "" {
		q.Set("season", season)
	}
	var out StandingsResponse
	if err := c.get(ctx, fmt.Sprintf("/competitions/%s/standings", competitionID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Teams fetches the team list for a competition.
func (c *Client) Teams(ctx context.Context, competitionID, season string) (*TeamsResponse, error) {
	q := url.Values{}
	if season != "" {
		q.Set("season", season)
	}
	var out TeamsResponse
	if err := c.get(ctx, fmt.Sprintf("/competitions/%s/teams", competitionID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamMatches fetches matches for a single team.
func (c *Client) TeamMatches(ctx context.Context, teamID, dateFrom, dateTo, status string, limit int) (*MatchesResponse, error) {
	q := url.Values{}
	if dateFrom != "" {
		q.Set("dateFrom", dateFrom)
	}
	if dateTo != "" {
		q.Set("dateTo", dateTo)
	}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var out MatchesResponse
	if err := c.get(ctx, fmt.Sprintf("/teams/%s/matches", teamID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchDetails fetches a single match by id.
func (c *Client) MatchDetails(ctx context.Context, matchID string) (*MatchDetailResponse, error) {
	var out MatchDetailResponse
	if err := c.get(ctx, fmt.Sprintf("/matches/%s", matchID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TopScorers fetches the leading scorers for a competition.
func (c *Client) TopScorers(ctx context.Context, competitionID string, limit int) (*ScorersResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var out ScorersResponse
	if err := c.get(ctx, fmt.Sprintf("/competitions/%s/scorers", competitionID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
