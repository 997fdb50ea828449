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
	"context"
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/sports-tool-server/internal/normalize"
)

// GetCompetitions implements spec.md §4.3.5's competition list.
func (d *Deps) GetCompetitions(ctx context.Context, raw json.RawMessage) (Result, error) {
	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.FootballData.Competitions(ctx)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	competitions := normalize.FootballCompetitions(resp)
	return Ok(fmt.Sprintf("%d competitions", len(competitions)), map[string]any{"competitions": competitions}, ""), nil
}

type competitionMatchesArgs struct {
	CompetitionID string `json:"competition_id"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
	Matchday      string `json:"matchday"`
	Status        string `json:"status"`
}

// GetCompetitionMatches implements spec.md §4.3.5's match-list tool.
func (d *Deps) GetCompetitionMatches(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a competitionMatchesArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("competition_id", a.CompetitionID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.FootballData.Matches(ctx, a.CompetitionID, a.DateFrom, a.DateTo, a.Status, a.Matchday)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	matches := normalize.FootballMatches(resp.Matches)
	return Ok(fmt.Sprintf("%d matches for competition %s", len(matches), a.CompetitionID),
		map[string]any{"matches": matches, "competition_id": a.CompetitionID}, ""), nil
}

type competitionStandingsArgs struct {
	CompetitionID string `json:"competition_id"`
	Season        string `json:"season"`
}

// GetCompetitionStandings implements spec.md §4.3.5's standings tool.
func (d *Deps) GetCompetitionStandings(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a competitionStandingsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("competition_id", a.CompetitionID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.FootballData.Standings(ctx, a.CompetitionID, a.Season)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	rows := normalize.FootballStandings(resp)
	return Ok(fmt.Sprintf("%d standings rows for competition %s", len(rows), a.CompetitionID),
		map[string]any{"standings": rows, "competition_id": a.CompetitionID}, ""), nil
}

type competitionTeamsArgs struct {
	CompetitionID string `json:"competition_id"`
	Season        string `json:"season"`
}

// GetCompetitionTeams implements spec.md §4.3.5's team-list tool for soccer.
func (d *Deps) GetCompetitionTeams(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a competitionTeamsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("competition_id", a.CompetitionID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.FootballData.Teams(ctx, a.CompetitionID, a.Season)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	teams := normalize.FootballTeams(resp)
	return Ok(fmt.Sprintf("%d teams in competition %s", len(teams), a.CompetitionID),
		map[string]any{"teams": teams, "competition_id": a.CompetitionID}, ""), nil
}

type teamMatchesArgs struct {
	TeamID   string `json:"team_id"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Status   string `json:"status"`
	Limit    int    `json:"limit"`
}

// GetTeamMatches implements spec.md §4.3.5's per-team match tool, served by
// SoccerDataAPI rather than football-data.org (spec.md names both soccer
// upstreams; this is the one whose endpoint is scoped to a single team).
func (d *Deps) GetTeamMatches(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a teamMatchesArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("team_id", a.TeamID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.SoccerData.TeamMatches(ctx, a.TeamID, a.Limit)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	matches := normalize.SoccerMatches(resp.Matches)
	return Ok(fmt.Sprintf("%d matches for team %s", len(matches), a.TeamID),
		map[string]any{"matches": matches, "team_id": a.TeamID}, ""), nil
}

type matchDetailsArgs struct {
	MatchID string `json:"match_id"`
}

// GetMatchDetails implements spec.md §4.3.5's single-match detail tool,
// served by SoccerDataAPI for the richer live-match payload.
func (d *Deps) GetMatchDetails(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a matchDetailsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("match_id", a.MatchID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.SoccerData.MatchDetails(ctx, a.MatchID)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	match, err := normalize.SoccerMatch(resp.Match)
	if err != nil {
		return Fail(err), nil
	}
	return Ok(fmt.Sprintf("match detail for %s", a.MatchID), map[string]any{"match": match}, ""), nil
}

type topScorersArgs struct {
	CompetitionID string `json:"competition_id"`
	Limit         int    `json:"limit"`
}

// GetTopScorers implements spec.md §4.3.5's top-scorers tool.
func (d *Deps) GetTopScorers(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a topScorersArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("competition_id", a.CompetitionID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.FootballData.TopScorers(ctx, a.CompetitionID, a.Limit)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	scorers := normalize.FootballScorers(resp, a.Limit)
	return Ok(fmt.Sprintf("%d scorers for competition %s", len(scorers), a.CompetitionID),
		map[string]any{"scorers": scorers, "competition_id": a.CompetitionID}, ""), nil
}
