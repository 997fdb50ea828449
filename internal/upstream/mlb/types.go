// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package mlb

// These types mirror only the fields of statsapi.mlb.com's responses that
// the normalizer consumes. Their fields are read by internal/normalize/mlb.go;
// the tools package passes them from the client to the normalizer.

type ScheduleResponse struct {
	Dates []struct {
		Date  string       `json:"date"`
		Games []ScheduleGame `json:"games"`
	} `json:"dates"`
}

type ScheduleGame struct {
	GamePk       int64  `json:"gamePk"`
	GameDate     string `json:"gameDate"`
	Status       struct {
		DetailedState string `json:"detailedState"`
		AbstractGameState string `json:"abstractGameState"`
	} `json:"status"`
	Teams struct {
		Home ScheduleTeamSide `json:"home"`
		Away ScheduleTeamSide `json:"away"`
	} `json:"teams"`
	Venue struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"venue"`
	DoubleHeader string `json:"doubleHeader"`
}

type ScheduleTeamSide struct {
	Score *int `json:"score"`
	Team  struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type TeamsResponse struct {
	Teams []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
		League       struct {
			Name string `json:"name"`
		} `json:"league"`
		Division struct {
			Name string `json:"name"`
		} `json:"division"`
	} `json:"teams"`
}

type RosterResponse struct {
	Roster []struct {
		Person struct {
			ID       int64  `json:"id"`
			FullName string `json:"fullName"`
		} `json:"person"`
		Position struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
	} `json:"roster"`
}

type GameLogResponse struct {
	Stats []struct {
		Group struct {
			DisplayName string `json:"displayName"`
		} `json:"group"`
		Splits []struct {
			Date string         `json:"date"`
			Stat map[string]any `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

type StandingsResponse struct {
	Records []struct {
		TeamRecords []struct {
			Team struct {
				ID int64 `json:"id"`
			} `json:"team"`
			StreakCode string `json:"streakCode"`
		} `json:"teamRecords"`
	} `json:"records"`
}
