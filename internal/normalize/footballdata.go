// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package normalize

import (
	"sort"
	"strconv"

	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/timeutil"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/footballdata"
)

func fdStatus(raw string) model.GameStatus {
	switch raw {
	case "FINISHED":
		return model.StatusFinal
	case "IN_PLAY", "PAUSED", "LIVE":
		return model.StatusLive
	case "POSTPONED":
		return model.StatusPostponed
	case "CANCELLED", "SUSPENDED":
		return model.StatusCancelled
	default:
		return model.StatusScheduled
	}
}

// FootballMatch reshapes one football-data.org Match into a Game.
func FootballMatch(m footballdata.Match) (model.Game, error) {
	start, err := timeutil.ParseET(m.UTCDate, "utcDate")
	if err != nil {
		return model.Game{}, err
	}
	g := model.Game{
		ID:      strconv.FormatInt(m.ID, 10),
		StartET: start,
		Status:  fdStatus(m.Status),
		Home:    model.TeamRef{ID: strconv.FormatInt(m.HomeTeam.ID, 10), Name: m.HomeTeam.Name, Abbreviation: m.HomeTeam.ShortName},
		Away:    model.TeamRef{ID: strconv.FormatInt(m.AwayTeam.ID, 10), Name: m.AwayTeam.Name, Abbreviation: m.AwayTeam.ShortName},
		DateET:  timeutil.DateET(start),
	}
	if m.Venue != "" {
		g.Venue = &model.Venue{Name: m.Venue}
	}
	if m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
		g.ScoreFull = &model.Score{Home: *m.Score.FullTime.Home, Away: *m.Score.FullTime.Away}
	}
	if m.Score.HalfTime.Home != nil && m.Score.HalfTime.Away != nil {
		g.ScoreHalf = &model.Score{Home: *m.Score.HalfTime.Home, Away: *m.Score.HalfTime.Away}
	}
	return g, nil
}

// FootballMatches reshapes a list of matches, skipping unparseable ones
// (spec.md §4.6), sorted ascending by UTC start per spec.md §4.3.5.
func FootballMatches(matches []footballdata.Match) []model.Game {
	out := make([]model.Game, 0, len(matches))
	for _, m := range matches {
		g, err := FootballMatch(m)
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartET.Before(out[j].StartET) })
	return out
}

// FootballCompetitions reshapes the competition list into Team-less refs.
func FootballCompetitions(resp *footballdata.CompetitionsResponse) []model.EntityRef {
	out := make([]model.EntityRef, 0, len(resp.Competitions))
	for _, c := range resp.Competitions {
		out = append(out, model.EntityRef{ID: strconv.FormatInt(c.ID, 10), Name: c.Name})
	}
	return out
}

// FootballStandings reshapes the "TOTAL" standings table, preserving
// provider position order per spec.md §4.3.5.
func FootballStandings(resp *footballdata.StandingsResponse) []model.StandingsRow {
	var rows []model.StandingsRow
	for _, s := range resp.Standings {
		if s.Type != "TOTAL" && len(resp.Standings) > 1 {
			continue
		}
		for _, row := range s.Table {
			rows = append(rows, model.StandingsRow{
				Position:       row.Position,
				Team:           model.EntityRef{ID: strconv.FormatInt(row.Team.ID, 10), Name: row.Team.Name},
				Played:         row.PlayedGames,
				Won:            row.Won,
				Drawn:          row.Draw,
				Lost:           row.Lost,
				GoalsFor:       row.GoalsFor,
				GoalsAgainst:   row.GoalsAgainst,
				GoalDifference: row.GoalDifference,
				Points:         row.Points,
			})
		}
		break
	}
	return rows
}

// FootballTeams reshapes a competition's team list.
func FootballTeams(resp *footballdata.TeamsResponse) []model.Team {
	out := make([]model.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		out = append(out, model.Team{ID: strconv.FormatInt(t.ID, 10), Name: t.Name, Abbreviation: t.ShortName})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

// FootballScorers reshapes the scorers list, honoring limit (default 10)
// per spec.md §4.3.5; missing assists are treated as zero.
func FootballScorers(resp *footballdata.ScorersResponse, limit int) []model.ScorerEntry {
	if limit <= 0 {
		limit = 10
	}
	out := make([]model.ScorerEntry, 0, len(resp.Scorers))
	for _, s := range resp.Scorers {
		if len(out) >= limit {
			break
		}
		out = append(out, model.ScorerEntry{
			Player:  model.EntityRef{ID: strconv.FormatInt(s.Player.ID, 10), Name: s.Player.Name},
			Team:    model.EntityRef{ID: strconv.FormatInt(s.Team.ID, 10), Name: s.Team.Name},
			Goals:   s.Goals,
			Assists: s.Assists,
		})
	}
	return out
}
