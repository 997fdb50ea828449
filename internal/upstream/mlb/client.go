// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package mlb is the upstream client for the MLB Stats API. No auth token
// is required.
package mlb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
)

const defaultBaseURL = "https://statsapi.mlb.com/api/v1"

// Client wraps a Fetcher with the MLB Stats API's base URL.
type Client struct {
	BaseURL string
	Fetcher *httpfetch.Fetcher
	Timeout time.Duration
}

// NewClient builds an MLB Client over the shared Fetcher.
func NewClient(fetcher *httpfetch.Fetcher, timeout time.Duration) *Client {
	return &Client{BaseURL: defaultBaseURL, Fetcher: fetcher, Timeout: timeout}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.Fetcher.FetchJSON(ctx, httpfetch.Request{URL: u, Timeout: c.Timeout}, v)
}

// Schedule fetches the day's schedule for dateET (YYYY-MM-DD).
func (c *Client) Schedule(ctx context.Context, dateET string) (*ScheduleResponse, error) {
	q := url.Values{"sportId": {"1"}, "date": {dateET}, "hydrate": {"team,venue,linescore"}}
	var out ScheduleResponse
	if err := c.get(ctx, "/schedule", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Teams fetches the active team list for a season.
func (c *Client) Teams(ctx context.Context, season string) (*TeamsResponse, error) {
	q := url.Values{"sportId": {"1"}}
	if season != "" {
		q.Set("season", season)
	}
	var out TeamsResponse
	if err := c.get(ctx, "/teams", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Roster fetches a team's active roster.
func (c *Client) Roster(ctx context.Context, teamID string) (*RosterResponse, error) {
	var out RosterResponse
	if err := c.get(ctx, fmt.Sprintf("/teams/%s/roster", teamID), url.Values{"rosterType": {"active"}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlayerGameLog fetches a player's game-by-game log for a season and stat group.
func (c *Client) PlayerGameLog(ctx context.Context, playerID, season, group string) (*GameLogResponse, error) {
	q := url.Values{"stats": {"gameLog"}, "group": {group}, "season": {season}}
	var out GameLogResponse
	if err := c.get(ctx, fmt.Sprintf("/people/%s/stats", playerID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Standings fetches standings for a league, used to derive streaks.
func (c *Client) Standings(ctx context.Context, leagueID string) (*StandingsResponse, error) {
	q := url.Values{"leagueId": {leagueID}}
	var out StandingsResponse
	if err := c.get(ctx, "/standings", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamSchedule fetches a team's games between startDate and endDate
// (YYYY-MM-DD, inclusive), used to derive recent form and scoring trends.
func (c *Client) TeamSchedule(ctx context.Context, teamID, startDate, endDate string) (*ScheduleResponse, error) {
	q := url.Values{
		"sportId":   {"1"},
		"teamId":    {teamID},
		"startDate": {startDate},
		"endDate":   {endDate},
		"hydrate":   {"team,linescore"},
	}
	var out ScheduleResponse
	if err := c.get(ctx, "/schedule", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
