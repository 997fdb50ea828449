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

	openai "github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/sports-tool-server/internal/concurrency"
	"github.com/AleutianAI/sports-tool-server/internal/config"
	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/personas"
)

func newChronulusDeps(t *testing.T, content string, failN int) *Deps {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if failN > 0 && calls <= failN {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream unavailable"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index":0,"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}]
		}`))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL
	client := openai.NewClientWithConfig(cfg)

	return &Deps{
		Sem:      concurrency.NewSemaphore(4),
		Personas: personas.Defaults(),
		LLM:      client,
		Config:   config.Config{LLMModel: "gpt-4o-mini"},
	}
}

func TestGetCustomChronulusAnalysis_AggregatesExpertOpinions(t *testing.T) {
	d := newChronulusDeps(t, `62%, chance the home side wins given recent form.`, 0)

	raw := json.RawMessage(`{"game_data":{"home":"A","away":"B"},"num_experts":3}`)
	res, err := d.GetCustomChronulusAnalysis(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
	data := res.Data.(map[string]any)
	opinions := data["opinions"]
	if opinions == nil {
		t.Fatalf("expected opinions in result data")
	}
	if _, ok := data["consensus"].(model.BetaConsensus); !ok {
		t.Fatalf("expected a model.BetaConsensus in result data, got %T", data["consensus"])
	}
}

func TestGetCustomChronulusAnalysis_RejectsOutOfRangeExpertCount(t *testing.T) {
	d := newChronulusDeps(t, `55%`, 0)
	raw := json.RawMessage(`{"game_data":{},"num_experts":9}`)
	res, err := d.GetCustomChronulusAnalysis(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatalf("expected validation failure for num_experts out of [1,5], got %+v", res)
	}
}

func TestGetCustomChronulusAnalysis_RejectsUnknownDepth(t *testing.T) {
	d := newChronulusDeps(t, `55%`, 0)
	raw := json.RawMessage(`{"game_data":{},"depth":"extreme"}`)
	res, err := d.GetCustomChronulusAnalysis(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatalf("expected validation failure for an unrecognized depth, got %+v", res)
	}
}

func TestGetCustomChronulusHealth_ReportsConfiguredState(t *testing.T) {
	d := &Deps{
		Personas: personas.Defaults(),
		Config:   config.Config{LLMModel: "gpt-4o-mini", LLMAPIKey: "present"},
	}
	res, err := d.GetCustomChronulusHealth(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK || res.ContentMD != "healthy" {
		t.Fatalf("expected healthy status, got %+v", res)
	}
}

func TestGetCustomChronulusHealth_ReportsDegradedWithoutKey(t *testing.T) {
	d := &Deps{Personas: personas.Defaults(), Config: config.Config{LLMModel: "gpt-4o-mini"}}
	res, err := d.GetCustomChronulusHealth(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true even when degraded, got %+v", res)
	}
	data := res.Data.(map[string]any)
	if data["llm_configured"].(bool) {
		t.Fatalf("expected llm_configured=false without an API key")
	}
}

func TestTestCustomChronulus_RunsSyntheticSelfTest(t *testing.T) {
	d := &Deps{}
	res, err := d.TestCustomChronulus(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected ok=true, got %+v", res)
	}
	data := res.Data.(map[string]any)
	summary, ok := data["consensus"].(model.BetaConsensus)
	if !ok {
		t.Fatalf("expected a model.BetaConsensus, got %T", data["consensus"])
	}
	if summary.Mean <= 0 || summary.Mean >= 1 {
		t.Fatalf("expected a mean probability in (0,1), got %v", summary.Mean)
	}
}
