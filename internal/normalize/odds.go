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
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/odds"
)

// OddsEvent reshapes one provider Event into model.OddsEvent. commence_time
// is parsed as RFC 3339 and kept in UTC, per spec.md §3
// ("commence_time (UTC ISO)" — the one timestamp in the system that is not
// rendered in ET, called out in the glossary).
func OddsEvent(e odds.Event) model.OddsEvent {
	commence, _ := time.Parse(time.RFC3339, e.CommenceTime)
	out := model.OddsEvent{
		EventID:      e.ID,
		SportKey:     e.SportKey,
		CommenceTime: commence.UTC(),
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
	}
	for _, bk := range e.Bookmakers {
		lastUpdate, _ := time.Parse(time.RFC3339, bk.LastUpdate)
		markets := make([]model.Market, 0, len(bk.Markets))
		for _, mk := range bk.Markets {
			outcomes := make([]model.Outcome, 0, len(mk.Outcomes))
			for _, o := range mk.Outcomes {
				outcomes = append(outcomes, model.Outcome{Name: o.Name, Price: o.Price, Point: o.Point})
			}
			markets = append(markets, model.Market{Key: mk.Key, Outcomes: outcomes})
		}
		out.Bookmakers = append(out.Bookmakers, model.Bookmaker{
			Key:        bk.Key,
			Title:      bk.Title,
			LastUpdate: lastUpdate.UTC(),
			Markets:    markets,
		})
	}
	return out
}

// OddsEvents reshapes a list of provider events.
func OddsEvents(resp odds.OddsResponse) []model.OddsEvent {
	out := make([]model.OddsEvent, 0, len(resp))
	for _, e := range resp {
		out = append(out, OddsEvent(e))
	}
	return out
}

type propKey struct {
	player    string
	market    string
	bookmaker string
}

// PlayerPropLines groups a single event's outcomes by (player, market,
// bookmaker) and pairs Over/Under outcomes into one record, per spec.md
// §4.3.6. Unpaired outcomes (only an Over, or only an Under) are dropped.
func PlayerPropLines(e odds.Event) []model.PlayerPropLine {
	type side struct {
		price *float64
		point *float64
	}
	type pair struct {
		bookmaker string
		over      *side
		under     *side
	}
	grouped := map[propKey]*pair{}
	var order []propKey

	for _, bk := range e.Bookmakers {
		for _, mk := range bk.Markets {
			for _, o := range mk.Outcomes {
				player := o.Description
				if player == "" {
					continue
				}
				key := propKey{player: player, market: mk.Key, bookmaker: bk.Title}
				p, ok := grouped[key]
				if !ok {
					p = &pair{bookmaker: bk.Title}
					grouped[key] = p
					order = append(order, key)
				}
				price := o.Price
				s := &side{price: &price, point: o.Point}
				switch o.Name {
				case "Over":
					p.over = s
				case "Under":
					p.under = s
				}
			}
		}
	}

	lines := make([]model.PlayerPropLine, 0, len(order))
	for _, key := range order {
		p := grouped[key]
		if p.over == nil || p.under == nil {
			continue
		}
		lines = append(lines, model.PlayerPropLine{
			Player:     key.player,
			Market:     key.market,
			Bookmaker:  p.bookmaker,
			OverPrice:  p.over.price,
			OverPoint:  p.over.point,
			UnderPrice: p.under.price,
			UnderPoint: p.under.point,
		})
	}
	return lines
}
