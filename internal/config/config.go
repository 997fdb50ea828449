// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config reads process-wide configuration once at startup into an
// immutable Config, per spec.md §6. Credentials are read once from the
// environment and held immutably for the lifetime of the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the immutable, process-wide configuration.
type Config struct {
	Port int

	MaxConcurrency int
	RequestTimeout time.Duration
	RequestDeadline time.Duration

	FootballDataToken string
	SoccerDataToken   string
	OddsAPIKey        string

	LLMAPIKey string
	LLMModel  string

	PersonaConfigPath string

	LogJSON bool
}

// Load reads Config from the environment, applying spec.md §6 defaults.
// Upstream auth tokens may be empty (MLB requires none; other providers
// degrade to per-call errors if their token is missing, rather than
// refusing to start, so that a partial deployment can still serve the
// tools that don't need the missing credential).
func Load() (Config, error) {
	cfg := Config{
		Port:              envInt("PORT", 8000),
		MaxConcurrency:    envInt("MAX_CONCURRENCY", 15),
		RequestTimeout:    time.Duration(envInt("REQUEST_TIMEOUT_S", 20)) * time.Second,
		RequestDeadline:   time.Duration(envInt("REQUEST_DEADLINE_S", 60)) * time.Second,
		FootballDataToken: os.Getenv("FOOTBALL_DATA_TOKEN"),
		SoccerDataToken:   os.Getenv("SOCCERDATA_API_TOKEN"),
		OddsAPIKey:        os.Getenv("ODDS_API_KEY"),
		LLMAPIKey:         os.Getenv("OPENAI_API_KEY"),
		LLMModel:          envString("OPENAI_MODEL", "gpt-4o-mini"),
		PersonaConfigPath: os.Getenv("PERSONA_CONFIG_PATH"),
		LogJSON:           os.Getenv("LOG_FORMAT") != "text",
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %d", cfg.Port)
	}
	if cfg.MaxConcurrency <= 0 {
		return Config{}, fmt.Errorf("config: invalid MAX_CONCURRENCY %d", cfg.MaxConcurrency)
	}
	return cfg, nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
