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
	"github.com/AleutianAI/sports-tool-server/internal/upstream/mlb"
)

// MLBStatus maps an MLB abstract/detailed game state to model.GameStatus.
func MLBStatus(abstract, detailed string) model.GameStatus {
	switch abstract {
	case "Final":
		return model.StatusFinal
	case "Live":
		return model.StatusLive
	}
	switch detailed {
	case "Postponed":
		return model.StatusPostponed
	case "Cancelled", "Suspended: Cancelled":
		return model.StatusCancelled
	default:
		return model.StatusScheduled
	}
}

// MLBSchedule reshapes a day's schedule into sorted Game entities, per
// spec.md §4.3.1: ascending by start time, games lacking a start last.
func MLBSchedule(resp *mlb.ScheduleResponse, dateET string) ([]model.Game, error) {
	var games []model.Game
	for _, d := range resp.Dates {
		for _, g := range d.Games {
			start, err := timeutil.ParseET(g.GameDate, "gameDate")
			startUnknown := false
			if err != nil {
				startUnknown = true
			} else if timeutil.IsMidnightET(start) {
				startUnknown = true
			}

			game := model.Game{
				ID:               strconv.FormatInt(g.GamePk, 10),
				StartET:          start,
				StartTimeUnknown: startUnknown,
				Status:           MLBStatus(g.Status.AbstractGameState, g.Status.DetailedState),
				Home: model.TeamRef{
					ID:           strconv.FormatInt(g.Teams.Home.Team.ID, 10),
					Name:         g.Teams.Home.Team.Name,
					Abbreviation: g.Teams.Home.Team.Abbreviation,
				},
				Away: model.TeamRef{
					ID:           strconv.FormatInt(g.Teams.Away.Team.ID, 10),
					Name:         g.Teams.Away.Team.Name,
					Abbreviation: g.Teams.Away.Team.Abbreviation,
				},
				DateET: dateET,
			}
			if g.Venue.ID != 0 {
				game.Venue = &model.Venue{ID: strconv.FormatInt(g.Venue.ID, 10), Name: g.Venue.Name}
			}
			if g.Teams.Home.Score != nil && g.Teams.Away.Score != nil {
				game.ScoreFull = &model.Score{Home: *g.Teams.Home.Score, Away: *g.Teams.Away.Score}
			}
			games = append(games, game)
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		if games[i].StartTimeUnknown != games[j].StartTimeUnknown {
			return !games[i].StartTimeUnknown
		}
		return games[i].StartET.Before(games[j].StartET)
	})
	return games, nil
}

// MLBTeams reshapes the team list, sorted by abbreviation per spec.md §4.3.2.
func MLBTeams(resp *mlb.TeamsResponse) []model.Team {
	teams := make([]model.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		teams = append(teams, model.Team{
			ID:           strconv.FormatInt(t.ID, 10),
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
			League:       t.League.Name,
			Division:     t.Division.Name,
		})
	}
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Abbreviation < teams[j].Abbreviation })
	return teams
}

// MLBRoster reshapes a roster, preserving upstream order per spec.md §4.3.2.
func MLBRoster(resp *mlb.RosterResponse, teamID string) []model.Player {
	players := make([]model.Player, 0, len(resp.Roster))
	for _, r := range resp.Roster {
		players = append(players, model.Player{
			ID:       strconv.FormatInt(r.Person.ID, 10),
			Name:     r.Person.FullName,
			TeamID:   teamID,
			Position: r.Position.Abbreviation,
		})
	}
	return players
}

// MLBGameLog reshapes a player's game log into PlayerGameStat entries for
// the requested group, discarding splits whose date is unparseable (skipped
// silently, per spec.md §4.6's partial-parse rule).
func MLBGameLog(resp *mlb.GameLogResponse, group string) []model.PlayerGameStat {
	var out []model.PlayerGameStat
	for _, s := range resp.Stats {
		for _, split := range s.Splits {
			dt, err := timeutil.ParseET(split.Date, "date")
			if err != nil {
				continue
			}
			stats := make(map[string]model.StatValue, len(split.Stat))
			for k, v := range split.Stat {
				stats[k] = CoerceInt(v)
			}
			out = append(out, model.PlayerGameStat{
				DateET:     timeutil.DateET(dt),
				ETDatetime: dt,
				Stats:      stats,
			})
		}
	}
	return out
}

// MLBStreak scans a standings payload for a team's streak code ("W3"/"L2").
func MLBStreak(resp *mlb.StandingsResponse, teamID string) (string, bool) {
	for _, rec := range resp.Records {
		for _, tr := range rec.TeamRecords {
			if strconv.FormatInt(tr.Team.ID, 10) == teamID {
				return tr.StreakCode, true
			}
		}
	}
	return "", false
}
