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
	"regexp"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/sports-tool-server/internal/consensus"
	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/personas"
	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
)

type chronulusAnalysisArgs struct {
	GameData   map[string]any `json:"game_data"`
	NumExperts int            `json:"num_experts"`
	Depth      string         `json:"depth"`
	PMarket    *float64       `json:"p_market"`
}

var probabilityPattern = regexp.MustCompile(`(?i)(\d{1,3}(?:\.\d+)?)\s*%|(0?\.\d+|[01](?:\.0+)?)`)

// GetCustomChronulusAnalysis implements spec.md §4.3.7: the "enhanced
// custom Chronulus" AI expert consensus tool, the only consensus path with
// implementable semantics per SPEC_FULL.md §9 (no real Chronulus SDK
// integration is stubbed).
func (d *Deps) GetCustomChronulusAnalysis(ctx context.Context, raw json.RawMessage) (Result, error) {
	var a chronulusAnalysisArgs
	if err := Decode(raw, &a); err != nil {
		return Fail(err), nil
	}
	if a.NumExperts <= 0 {
		a.NumExperts = 3
	}
	if a.NumExperts < 1 || a.NumExperts > 5 {
		return Fail(&toolerr.ValidationError{Field: "num_experts", Reason: "must be between 1 and 5"}), nil
	}
	if a.Depth == "" {
		a.Depth = "standard"
	}
	if err := RequireOneOf("depth", a.Depth, "brief", "standard", "comprehensive"); err != nil {
		return Fail(err), nil
	}

	roster := d.Personas.First(a.NumExperts)
	gameDataJSON, err := json.Marshal(a.GameData)
	if err != nil {
		return Fail(&toolerr.ValidationError{Field: "game_data", Reason: err.Error()}), nil
	}

	type outcome struct {
		persona string
		opinion model.ExpertOpinion
		err     error
	}
	outcomes := make([]outcome, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range roster {
		i, p := i, p
		g.Go(func() error {
			if err := d.Sem.Acquire(gctx); err != nil {
				outcomes[i] = outcome{persona: p.ID, err: err}
				return nil
			}
			defer d.Sem.Release()

			prompt := buildPrompt(p, string(gameDataJSON), a.Depth)
			resp, callErr := d.LLM.CreateChatCompletion(gctx, openai.ChatCompletionRequest{
				Model: d.Config.LLMModel,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleUser, Content: prompt},
				},
			})
			if callErr != nil {
				outcomes[i] = outcome{persona: p.ID, err: callErr}
				return nil
			}
			if len(resp.Choices) == 0 {
				outcomes[i] = outcome{persona: p.ID, err: fmt.Errorf("empty response from model")}
				return nil
			}

			text := resp.Choices[0].Message.Content
			prob, reasoning, parseErr := parseExpertResponse(text)
			if parseErr != nil {
				outcomes[i] = outcome{persona: p.ID, err: parseErr}
				return nil
			}
			outcomes[i] = outcome{persona: p.ID, opinion: model.ExpertOpinion{
				ExpertID:    p.ID,
				Persona:     p.Name,
				Probability: prob,
				Reasoning:   reasoning,
			}}
			return nil
		})
	}
	_ = g.Wait()

	var opinions []model.ExpertOpinion
	errs := map[string]string{}
	for _, o := range outcomes {
		if o.err != nil {
			errs[o.persona] = o.err.Error()
			continue
		}
		opinions = append(opinions, o.opinion)
	}

	if len(opinions) == 0 {
		return Fail(&toolerr.ConsensusError{Reason: "every expert call failed"}), nil
	}

	summary, err := consensus.Summarize(opinions, a.PMarket)
	if err != nil {
		return Fail(err), nil
	}

	data := map[string]any{
		"opinions":  opinions,
		"consensus": summary,
		"errors":    errs,
	}
	note := fmt.Sprintf("effective expert count: %d of %d requested", len(opinions), a.NumExperts)
	return Ok(fmt.Sprintf("consensus %s (%s)", summary.Recommendation, roundedPercent(summary.Mean)), data, note), nil
}

func buildPrompt(p personas.Persona, gameDataJSON, depth string) string {
	hint := map[string]string{
		"brief":         "Keep your reasoning to one short sentence.",
		"standard":      "Keep your reasoning to a short paragraph.",
		"comprehensive": "Give a detailed multi-paragraph analysis.",
	}[depth]
	return fmt.Sprintf(p.PromptTemplate, gameDataJSON) + "\n" + hint
}

// parseExpertResponse scans text for the first probability-shaped token
// (a "NN%" or a bare "0.NN"/"1.0"), bounds it to [0.01, 0.99], and returns
// the remainder as reasoning, per spec.md §4.3.7 step 2.
func parseExpertResponse(text string) (float64, string, error) {
	loc := probabilityPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, "", fmt.Errorf("no parseable probability in model response")
	}
	match := probabilityPattern.FindStringSubmatch(text)

	var prob float64
	var err error
	if match[1] != "" {
		prob, err = strconv.ParseFloat(match[1], 64)
		prob /= 100
	} else {
		prob, err = strconv.ParseFloat(match[2], 64)
	}
	if err != nil {
		return 0, "", fmt.Errorf("unparseable probability token: %w", err)
	}

	if prob < 0.01 {
		prob = 0.01
	}
	if prob > 0.99 {
		prob = 0.99
	}

	reasoning := strings.TrimSpace(text[loc[1]:])
	if reasoning == "" {
		reasoning = strings.TrimSpace(text[:loc[0]])
	}
	return prob, reasoning, nil
}

func roundedPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 1, 64) + "%"
}

// GetCustomChronulusHealth reports on this engine's own health — the
// consensus path and LLM configuration, not a real Chronulus SDK (none
// exists here; see SPEC_FULL.md §9).
func (d *Deps) GetCustomChronulusHealth(ctx context.Context, raw json.RawMessage) (Result, error) {
	configured := d.Config.LLMAPIKey != ""
	data := map[string]any{
		"llm_configured": configured,
		"llm_model":      d.Config.LLMModel,
		"persona_count":  len(d.Personas),
	}
	status := "healthy"
	if !configured {
		status = "degraded: no LLM API key configured"
	}
	return Ok(status, data, ""), nil
}

// TestCustomChronulus runs a synthetic self-test of the consensus engine
// over fixed inputs, without calling the LLM, to verify the Beta fit and
// recommendation rule are wired correctly end to end.
func (d *Deps) TestCustomChronulus(ctx context.Context, raw json.RawMessage) (Result, error) {
	market := 0.5
	opinions := []model.ExpertOpinion{
		{ExpertID: "self-test-1", Persona: "synthetic", Probability: 0.58},
		{ExpertID: "self-test-2", Persona: "synthetic", Probability: 0.55},
		{ExpertID: "self-test-3", Persona: "synthetic", Probability: 0.57},
	}
	summary, err := consensus.Summarize(opinions, &market)
	if err != nil {
		return Fail(err), nil
	}
	return Ok("self-test ok", map[string]any{"consensus": summary}, ""), nil
}
