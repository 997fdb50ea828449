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
	"strings"

	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/timeutil"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/soccerdata"
)

func sdStatus(raw string) model.GameStatus {
	switch strings.ToLower(raw) {
	case "finished", "ft":
		return model.StatusFinal
	case "live", "1h", "2h", "ht":
		return model.StatusLive
	case "postponed", "postp.":
		return model.StatusPostponed
	case "cancelled", "canc.":
		return model.StatusCancelled
	default:
		return model.StatusScheduled
	}
}

// SoccerMatch reshapes one SoccerDataAPI Match into a Game. SoccerDataAPI
// splits date and time into separate fields; they're joined before parsing.
func SoccerMatch(m soccerdata.Match) (model.Game, error) {
	raw := m.Date
	if m.Time != "" {
		raw = m.Date + "T" + m.Time
	}
	start, err := timeutil.ParseET(raw, "date")
	if err != nil {
		return model.Game{}, err
	}
	g := model.Game{
		ID:      strconv.FormatInt(m.ID, 10),
		StartET: start,
		Status:  sdStatus(m.Status),
		Home:    model.TeamRef{ID: strconv.FormatInt(m.Teams.Home.ID, 10), Name: m.Teams.Home.Name},
		Away:    model.TeamRef{ID: strconv.FormatInt(m.Teams.Away.ID, 10), Name: m.Teams.Away.Name},
		DateET:  timeutil.DateET(start),
	}
	if m.Stadium != "" {
		g.Venue = &model.Venue{Name: m.Stadium}
	}
	if m.Goals.HomeFT != nil && m.Goals.AwayFT != nil {
		g.ScoreFull = &model.Score{Home: *m.Goals.HomeFT, Away: *m.Goals.AwayFT}
	}
	if m.Goals.HomeHT != nil && m.Goals.AwayHT != nil {
		g.ScoreHalf = &model.Score{Home: *m.Goals.HomeHT, Away: *m.Goals.AwayHT}
	}
	return g, nil
}

// SoccerMatches reshapes a list of matches, skipping unparseable ones,
// sorted ascending by UTC start per spec.md §4.3.5.
func SoccerMatches(matches []soccerdata.Match) []model.Game {
	out := make([]model.Game, 0, len(matches))
	for _, m := range matches {
		g, err := SoccerMatch(m)
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartET.Before(out[j].StartET) })
	return out
}
