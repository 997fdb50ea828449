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

type oddsArgs struct {
	Sport      string `json:"sport"`
	Markets    string `json:"markets"`
	Regions    string `json:"regions"`
	OddsFormat string `json:"odds_format"`
}

// GetOdds implements spec.md §4.3.6's pass-through odds tool.
func (d *Deps) GetOdds(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a oddsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("sport", a.Sport); err != nil {
		return Fail(err), nil
	}
	if a.Markets == "" {
		a.Markets = "h2h,spreads,totals"
	}
	if a.Regions == "" {
		a.Regions = "us"
	}
	if a.OddsFormat == "" {
		a.OddsFormat = "american"
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.Odds.Odds(ctx, a.Sport, a.Markets, a.Regions, a.OddsFormat)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	events := normalize.OddsEvents(resp)
	return Ok(fmt.Sprintf("%d odds events for %s", len(events), a.Sport), map[string]any{"events": events}, ""), nil
}

type eventOddsArgs struct {
	Sport      string `json:"sport"`
	EventID    string `json:"event_id"`
	Markets    string `json:"markets"`
	Regions    string `json:"regions"`
	OddsFormat string `json:"odds_format"`
}

// GetEventOdds implements spec.md §4.3.6's per-event player-prop tool:
// fetch, then pair Over/Under outcomes per (player, market, bookmaker).
func (d *Deps) GetEventOdds(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a eventOddsArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("sport", a.Sport); err != nil {
		return Fail(err), nil
	}
	if err := RequireNonEmpty("event_id", a.EventID); err != nil {
		return Fail(err), nil
	}
	if a.Regions == "" {
		a.Regions = "us"
	}
	if a.OddsFormat == "" {
		a.OddsFormat = "american"
	}

	if err := d.Sem.Acquire(ctx); err != nil {
		return Result{}, err
	}
	resp, err := d.Odds.EventOdds(ctx, a.Sport, a.EventID, a.Markets, a.Regions, a.OddsFormat)
	d.Sem.Release()
	if err != nil {
		return Fail(err), nil
	}

	lines := normalize.PlayerPropLines(*resp)
	return Ok(fmt.Sprintf("%d paired prop lines for event %s", len(lines), a.EventID),
		map[string]any{"event_id": a.EventID, "prop_lines": lines}, ""), nil
}
