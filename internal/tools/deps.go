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
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/sports-tool-server/internal/concurrency"
	"github.com/AleutianAI/sports-tool-server/internal/config"
	"github.com/AleutianAI/sports-tool-server/internal/obslog"
	"github.com/AleutianAI/sports-tool-server/internal/personas"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/footballdata"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/mlb"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/odds"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/soccerdata"
)

// Handler implements one named tool: decode arguments, do the work, return
// a Result. Handlers never panic across this boundary; the router recovers
// and converts any panic into an InternalError.
type Handler func(ctx context.Context, raw json.RawMessage) (Result, error)

// Deps are the shared, process-wide collaborators every handler closes
// over. Constructed once at startup and never mutated.
type Deps struct {
	Config  config.Config
	Logger  *obslog.Logger
	Sem     *concurrency.Semaphore
	Personas personas.Roster

	MLB          *mlb.Client
	FootballData *footballdata.Client
	SoccerData   *soccerdata.Client
	Odds         *odds.Client

	LLM        *openai.Client
	LLMTimeout time.Duration
}

// Registry builds the full name -> Handler dispatch table of spec.md §6's
// 20-tool registry.
func Registry(d *Deps) map[string]Handler {
	return map[string]Handler{
		"getMLBScheduleET":      d.GetMLBScheduleET,
		"getMLBTeams":           d.GetMLBTeams,
		"getMLBTeamRoster":      d.GetMLBTeamRoster,
		"getMLBPlayerLastN":     d.GetMLBPlayerLastN,
		"getMLBPitcherMatchup":  d.GetMLBPitcherMatchup,
		"getMLBTeamForm":        d.GetMLBTeamForm,
		"getMLBPlayerStreaks":   d.GetMLBPlayerStreaks,
		"getMLBTeamScoringTrends": d.GetMLBTeamScoringTrends,

		"getCompetitions":        d.GetCompetitions,
		"getCompetitionMatches":  d.GetCompetitionMatches,
		"getCompetitionStandings": d.GetCompetitionStandings,
		"getCompetitionTeams":    d.GetCompetitionTeams,
		"getTeamMatches":         d.GetTeamMatches,
		"getMatchDetails":        d.GetMatchDetails,
		"getTopScorers":          d.GetTopScorers,

		"getOdds":      d.GetOdds,
		"getEventOdds": d.GetEventOdds,

		"getCustomChronulusAnalysis": d.GetCustomChronulusAnalysis,
		"getCustomChronulusHealth":   d.GetCustomChronulusHealth,
		"testCustomChronulus":        d.TestCustomChronulus,
	}
}
