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
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/normalize"
	"github.com/AleutianAI/sports-tool-server/internal/timeutil"
)

type scheduleArgs struct {
	Date string `json:"date"`
}

// GetMLBScheduleET implements spec.md §4.3.1 for MLB.
func (d *Deps) GetMLBScheduleET(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a scheduleArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	dateET := a.Date
	if dateET == "" {
		dateET = timeutil.TodayET(time.Now())
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.Schedule(ctx, dateET)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	games, err := normalize.MLBSchedule(resp, dateET)
	if err != nil {
		return Fail(err), nil
	}

	data := map[string]any{"games": games, "count": len(games), "date_et": dateET}
	return Ok(fmt.Sprintf("%d MLB games on %s ET", len(games), dateET), data, ""), nil
}

type teamsArgs struct {
	Season string `json:"season"`
}

// GetMLBTeams implements spec.md §4.3.2's team-list tool for MLB.
func (d *Deps) GetMLBTeams(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a teamsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.Teams(ctx, a.Season)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	teams := normalize.MLBTeams(resp)
	return Ok(fmt.Sprintf("%d MLB teams", len(teams)), map[string]any{"teams": teams}, ""), nil
}

type rosterArgs struct {
	TeamID string `json:"team_id"`
}

// GetMLBTeamRoster implements spec.md §4.3.2's roster tool.
func (d *Deps) GetMLBTeamRoster(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a rosterArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("team_id", a.TeamID); err != nil {
		return Fail(err), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.Roster(ctx, a.TeamID)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	players := normalize.MLBRoster(resp, a.TeamID)
	return Ok(fmt.Sprintf("%d players on team %s", len(players), a.TeamID),
		map[string]any{"players": players, "team_id": a.TeamID}, ""), nil
}

var defaultHittingStats = []string{"hits", "homeRuns", "rbi", "runs", "atBats"}
var defaultPitchingStats = []string{"strikeOuts", "earnedRuns", "baseOnBalls", "hits", "inningsPitched"}

type playerLastNArgs struct {
	PlayerIDs   []string `json:"player_ids"`
	Season      string   `json:"season"`
	Group       string   `json:"group"`
	Stats       []string `json:"stats"`
	Count       *int     `json:"count"`
	CutoffISOET string   `json:"cutoff_iso_et"`
}

// GetMLBPlayerLastN implements the canonical fan-out tool, spec.md §4.3.3.
func (d *Deps) GetMLBPlayerLastN(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a playerLastNArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmptySlice("player_ids", a.PlayerIDs); err != nil {
		return Fail(err), nil
	}
	if a.Group == "" {
		a.Group = "hitting"
	}
	if err := RequireOneOf("group", a.Group, "hitting", "pitching"); err != nil {
		return Fail(err), nil
	}
	count := 5
	if a.Count != nil {
		count = *a.Count
	}
	if err := RequirePositive("count", count); err != nil {
		return Fail(err), nil
	}
	if a.Season == "" {
		a.Season = strconv.Itoa(time.Now().Year())
	}
	statKeys := a.Stats
	if len(statKeys) == 0 {
		if a.Group == "pitching" {
			statKeys = defaultPitchingStats
		} else {
			statKeys = defaultHittingStats
		}
	}

	cutoff := time.Now().In(timeutil.Location)
	if a.CutoffISOET != "" {
		t, err := timeutil.ParseET(a.CutoffISOET, "cutoff_iso_et")
		if err != nil {
			return Fail(err), nil
		}
		cutoff = t
	}

	type outcome struct {
		id     string
		result model.PlayerStatsResult
		err    error
	}
	outcomes := make([]outcome, len(a.PlayerIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range a.PlayerIDs {
		i, id := i, id
		g.Go(func() error {
			if err := d.Sem.Acquire(gctx); err != nil {
				outcomes[i] = outcome{id: id, err: err}
				return nil
			}
			resp, err := d.MLB.PlayerGameLog(gctx, id, a.Season, a.Group)
			d.Sem.Release()
			if err != nil {
				outcomes[i] = outcome{id: id, err: err}
				return nil
			}

			games := normalize.MLBGameLog(resp, a.Group)
			cutoffDate := timeutil.DateET(cutoff)
			var kept []model.PlayerGameStat
			for _, gm := range games {
				if gm.DateET > cutoffDate {
					continue
				}
				kept = append(kept, gm)
			}
			sort.SliceStable(kept, func(x, y int) bool { return kept[x].ETDatetime.After(kept[y].ETDatetime) })
			if len(kept) > count {
				kept = kept[:count]
			}

			outcomes[i] = outcome{id: id, result: model.PlayerStatsResult{
				Games:      kept,
				Aggregates: aggregate(kept, statKeys),
			}}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Fail(fmt.Errorf("request deadline exceeded: %w", err)), nil
	}

	results := map[string]model.PlayerStatsResult{}
	errs := map[string]string{}
	for _, o := range outcomes {
		if o.err != nil {
			errs[o.id] = o.err.Error()
			continue
		}
		results[o.id] = o.result
	}

	data := map[string]any{"results": results, "errors": errs}
	return Ok(fmt.Sprintf("last-%d %s stats for %d of %d players", count, a.Group, len(results), len(a.PlayerIDs)),
		data, "dates and instants are America/New_York (ET)"), nil
}

// aggregate computes <key>_sum and <key>_avg over the integer-typed samples
// of each requested stat key, per spec.md §4.3.3 step 4.
func aggregate(games []model.PlayerGameStat, keys []string) model.Aggregates {
	out := model.Aggregates{}
	for _, key := range keys {
		var sum float64
		var n int
		for _, g := range games {
			v, ok := g.Stats[key]
			if !ok {
				continue
			}
			f, isNum := v.AsFloat()
			if !isNum {
				continue
			}
			sum += f
			n++
		}
		out[key+"_sum"] = sum
		if n > 0 {
			out[key+"_avg"] = sum / float64(n)
		} else {
			out[key+"_avg"] = 0.0
		}
	}
	return out
}

type pitcherMatchupArgs struct {
	PitcherID      string `json:"pitcher_id"`
	OpponentTeamID string `json:"opponent_team_id"`
	Season         string `json:"season"`
}

// GetMLBPitcherMatchup implements spec.md §4.3.4's pitcher matchup tool.
func (d *Deps) GetMLBPitcherMatchup(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a pitcherMatchupArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("pitcher_id", a.PitcherID); err != nil {
		return Fail(err), nil
	}
	if a.Season == "" {
		a.Season = strconv.Itoa(time.Now().Year())
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.PlayerGameLog(ctx, a.PitcherID, a.Season, "pitching")
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	games := normalize.MLBGameLog(resp, "pitching")
	era, whip, k9, note := pitchingRates(games)

	data := map[string]any{
		"pitcher_id":       a.PitcherID,
		"opponent_team_id": a.OpponentTeamID,
		"games_sampled":    len(games),
		"era":              era,
		"whip":             whip,
		"k_per_9":          k9,
	}
	return Ok(fmt.Sprintf("derived rates for pitcher %s over %d games", a.PitcherID, len(games)), data, note), nil
}

// pitchingRates computes ERA/WHIP/K9 per spec.md §4.3.4, rounding to one
// decimal and returning null (nil) with a note on division by zero.
func pitchingRates(games []model.PlayerGameStat) (*float64, *float64, *float64, string) {
	var ip, er, bb, hits, k float64
	for _, g := range games {
		ip += statFloat(g, "inningsPitched", parseInnings)
		er += statFloat(g, "earnedRuns", nil)
		bb += statFloat(g, "baseOnBalls", nil)
		hits += statFloat(g, "hits", nil)
		k += statFloat(g, "strikeOuts", nil)
	}
	if ip == 0 {
		return nil, nil, nil, "no innings pitched in sample; rates undefined"
	}
	era := round1(9 * er / ip)
	whip := round1((bb + hits) / ip)
	k9 := round1(9 * k / ip)
	return &era, &whip, &k9, ""
}

// statFloat reads a coerced stat's numeric value, applying an optional
// parse override (used for MLB's "6.1"-style innings-pitched string).
func statFloat(g model.PlayerGameStat, key string, parse func(model.StatValue) (float64, bool)) float64 {
	v, ok := g.Stats[key]
	if !ok {
		return 0
	}
	if parse != nil {
		if f, ok := parse(v); ok {
			return f
		}
		return 0
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0
	}
	return f
}

// parseInnings converts MLB's "<outs_as_tenths>" innings-pitched
// representation ("6.1" = 6 and 1/3 innings, "6.2" = 6 and 2/3) to a true
// fractional inning count.
func parseInnings(v model.StatValue) (float64, bool) {
	var s string
	switch {
	case v.StringValue != nil:
		s = *v.StringValue
	case v.FloatValue != nil:
		s = strconv.FormatFloat(*v.FloatValue, 'f', 1, 64)
	case v.IntValue != nil:
		return float64(*v.IntValue), true
	default:
		return 0, false
	}
	whole, frac, found := strings.Cut(s, ".")
	w, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return 0, false
	}
	if !found {
		return w, true
	}
	switch frac {
	case "1":
		return w + 1.0/3.0, true
	case "2":
		return w + 2.0/3.0, true
	default:
		return w, true
	}
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

type teamFormArgs struct {
	TeamID         string `json:"team_id"`
	OpponentTeamID string `json:"opponent_team_id"`
}

// GetMLBTeamForm implements spec.md §4.3.4's team-form tool: recent
// record and current streak.
func (d *Deps) GetMLBTeamForm(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a teamFormArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("team_id", a.TeamID); err != nil {
		return Fail(err), nil
	}

	end := timeutil.TodayET(time.Now())
	start := timeutil.DateET(time.Now().In(timeutil.Location).AddDate(0, 0, -21))

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	schedResp, schedErr := d.MLB.TeamSchedule(ctx, a.TeamID, start, end)
	d.Sem.Release()
	if schedErr != nil {
		return Fail(schedErr), nil
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	standingsResp, standErr := d.MLB.Standings(ctx, "103,104")
	d.Sem.Release()

	games, _ := normalize.MLBSchedule(schedResp, "")
	wins, losses := teamRecord(games, a.TeamID)

	data := map[string]any{
		"team_id":          a.TeamID,
		"opponent_team_id": a.OpponentTeamID,
		"wins":             wins,
		"losses":           losses,
		"games_sampled":    wins + losses,
	}
	if standErr == nil {
		if streak, ok := normalize.MLBStreak(standingsResp, a.TeamID); ok {
			data["streak"] = streak
		}
	}
	return Ok(fmt.Sprintf("form for team %s over last 21 days", a.TeamID), data, ""), nil
}

func teamRecord(games []model.Game, teamID string) (wins, losses int) {
	for _, g := range games {
		if g.Status != model.StatusFinal || g.ScoreFull == nil {
			continue
		}
		isHome := g.Home.ID == teamID
		isAway := g.Away.ID == teamID
		if !isHome && !isAway {
			continue
		}
		homeWon := g.ScoreFull.Home > g.ScoreFull.Away
		if (isHome && homeWon) || (isAway && !homeWon) {
			wins++
		} else {
			losses++
		}
	}
	return
}

type playerStreaksArgs struct {
	PlayerID  string  `json:"player_id"`
	Season    string  `json:"season"`
	Group     string  `json:"group"`
	StatKey   string  `json:"stat_key"`
	Threshold float64 `json:"threshold"`
}

// GetMLBPlayerStreaks implements spec.md §4.3.4's streak family: the
// player-level analogue of a team streak, scanning the most recent games
// for a run of consecutive games meeting a stat threshold.
func (d *Deps) GetMLBPlayerStreaks(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a playerStreaksArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("player_id", a.PlayerID); err != nil {
		return Fail(err), nil
	}
	if a.Group == "" {
		a.Group = "hitting"
	}
	if err := RequireOneOf("group", a.Group, "hitting", "pitching"); err != nil {
		return Fail(err), nil
	}
	if a.StatKey == "" {
		a.StatKey = "hits"
	}
	if a.Threshold == 0 {
		a.Threshold = 1
	}
	if a.Season == "" {
		a.Season = strconv.Itoa(time.Now().Year())
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.PlayerGameLog(ctx, a.PlayerID, a.Season, a.Group)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	games := normalize.MLBGameLog(resp, a.Group)
	sort.SliceStable(games, func(i, j int) bool { return games[i].ETDatetime.After(games[j].ETDatetime) })

	streak := 0
	for _, g := range games {
		v, ok := g.Stats[a.StatKey]
		if !ok {
			break
		}
		f, isNum := v.AsFloat()
		if !isNum || f < a.Threshold {
			break
		}
		streak++
	}

	data := map[string]any{
		"player_id":     a.PlayerID,
		"stat_key":      a.StatKey,
		"threshold":     a.Threshold,
		"current_streak": streak,
		"games_sampled": len(games),
	}
	return Ok(fmt.Sprintf("current streak for player %s on %s >= %v", a.PlayerID, a.StatKey, a.Threshold), data, ""), nil
}

type teamScoringTrendsArgs struct {
	TeamID string `json:"team_id"`
	LastN  int    `json:"last_n"`
}

// GetMLBTeamScoringTrends implements spec.md §4.3.4's team-level scoring
// trend tool: average runs scored/allowed over the last N completed games.
func (d *Deps) GetMLBTeamScoringTrends(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a teamScoringTrendsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("team_id", a.TeamID); err != nil {
		return Fail(err), nil
	}
	if a.LastN <= 0 {
		a.LastN = 10
	}

	end := timeutil.TodayET(time.Now())
	start := timeutil.DateET(time.Now().In(timeutil.Location).AddDate(0, 0, -45))

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.MLB.TeamSchedule(ctx, a.TeamID, start, end)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	games, _ := normalize.MLBSchedule(resp, "")
	var completed []model.Game
	for _, g := range games {
		if g.Status == model.StatusFinal && g.ScoreFull != nil {
			completed = append(completed, g)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool { return completed[i].StartET.After(completed[j].StartET) })
	if len(completed) > a.LastN {
		completed = completed[:a.LastN]
	}

	var scored, allowed float64
	for _, g := range completed {
		if g.Home.ID == a.TeamID {
			scored += float64(g.ScoreFull.Home)
			allowed += float64(g.ScoreFull.Away)
		} else {
			scored += float64(g.ScoreFull.Away)
			allowed += float64(g.ScoreFull.Home)
		}
	}
	n := float64(len(completed))
	data := map[string]any{"team_id": a.TeamID, "games_sampled": len(completed)}
	if n > 0 {
		avgScored := round1(scored / n)
		avgAllowed := round1(allowed / n)
		data["avg_runs_scored"] = avgScored
		data["avg_runs_allowed"] = avgAllowed
	} else {
		data["avg_runs_scored"] = nil
		data["avg_runs_allowed"] = nil
	}
	return Ok(fmt.Sprintf("scoring trend for team %s over last %d completed games", a.TeamID, a.LastN), data, ""), nil
}
