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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AleutianAI/sports-tool-server/internal/concurrency"
	"github.com/AleutianAI/sports-tool-server/internal/httpfetch"
	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/footballdata"
	"github.com/AleutianAI/sports-tool-server/internal/upstream/soccerdata"
)

func newSoccerDeps(t *testing.T, fdSrv, sdSrv *httptest.Server) *Deps {
	t.Helper()
	fetcher := httpfetch.NewFetcher("test-agent")
	d := &Deps{Sem: concurrency.NewSemaphore(4)}
	if fdSrv != nil {
		fd := footballdata.NewClient(fetcher, "token", 5*time.Second)
		fd.BaseURL = fdSrv.URL
		d.FootballData = fd
	}
	if sdSrv != nil {
		sd := soccerdata.NewClient(fetcher, "token", 5*time.Second)
		sd.BaseURL = sdSrv.URL
		d.SoccerData = sd
	}
	return d
}

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestGetCompetitions_ReturnsNormalizedList(t *testing.T) {
	srv := jsonServer(t, `{"competitions":[{"id":2021,"name":"Premier League","code":"PL"}]}`)
	defer srv.Close()
	d := newSoccerDeps(t, srv, nil)

	res, err := d.GetCompetitions(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
	data := res.Data.(map[string]any)
	if len(data["competitions"].([]model.EntityRef)) != 1 {
		t.Fatalf("expected 1 competition, got %+v", data["competitions"])
	}
}

func TestGetCompetitionMatches_RequiresCompetitionID(t *testing.T) {
	d := newSoccerDeps(t, nil, nil)
	res, err := d.GetCompetitionMatches(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatalf("expected validation failure for missing competition_id, got %+v", res)
	}
}

func TestGetCompetitionStandings_PrefersTotalTable(t *testing.T) {
	srv := jsonServer(t, `{"standings":[
		{"type":"HOME","table":[{"position":1,"team":{"id":1,"name":"Home Only"}}]},
		{"type":"TOTAL","table":[{"position":1,"team":{"id":10,"name":"Leaders FC"},"playedGames":5,"won":4,"draw":0,"lost":1,"points":12}]}
	]}`)
	defer srv.Close()
	d := newSoccerDeps(t, srv, nil)

	raw := json.RawMessage(`{"competition_id":"PL"}`)
	res, err := d.GetCompetitionStandings(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
	data := res.Data.(map[string]any)
	rows := data["standings"].([]model.StandingsRow)
	if len(rows) != 1 || rows[0].Team.Name != "Leaders FC" {
		t.Fatalf("expected the TOTAL table's single row, got %+v", rows)
	}
}

func TestGetCompetitionTeams_RequiresCompetitionID(t *testing.T) {
	d := newSoccerDeps(t, nil, nil)
	res, err := d.GetCompetitionTeams(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatalf("expected validation failure for missing competition_id, got %+v", res)
	}
}

func TestGetTeamMatches_UsesSoccerDataAPI(t *testing.T) {
	srv := jsonServer(t, `{"matches":[{"id":1,"date":"2025-06-01","time":"19:00","status":"Not Started","teams":{"home":{"id":1,"name":"A"},"away":{"id":2,"name":"B"}},"goals":{}}]}`)
	defer srv.Close()
	d := newSoccerDeps(t, nil, srv)

	raw := json.RawMessage(`{"team_id":"1"}`)
	res, err := d.GetTeamMatches(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
}

func TestGetMatchDetails_RequiresMatchID(t *testing.T) {
	d := newSoccerDeps(t, nil, nil)
	res, err := d.GetMatchDetails(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatalf("expected validation failure for missing match_id, got %+v", res)
	}
}

func TestGetTopScorers_AppliesLimit(t *testing.T) {
	srv := jsonServer(t, `{"scorers":[
		{"player":{"id":1,"name":"A"},"team":{"id":1,"name":"T1"},"goals":10},
		{"player":{"id":2,"name":"B"},"team":{"id":2,"name":"T2"},"goals":9}
	]}`)
	defer srv.Close()
	d := newSoccerDeps(t, srv, nil)

	raw := json.RawMessage(`{"competition_id":"PL","limit":1}`)
	res, err := d.GetTopScorers(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
	data := res.Data.(map[string]any)
	scorers := data["scorers"].([]model.ScorerEntry)
	if len(scorers) != 1 || scorers[0].Player.Name != "A" {
		t.Fatalf("expected limit=1 to keep only the first scorer, got %+v", scorers)
	}
}
