// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package personas holds the expert-persona roster driving the AI expert
// consensus tool (spec.md §4.3.7). Per SPEC_FULL.md §9, personas are data:
// read from an optional YAML file at startup, falling back to Defaults().
package personas

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Persona is one configured expert voice.
type Persona struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	PromptTemplate string `yaml:"prompt_template"`
}

// Roster is an ordered list of personas; order is significant (spec.md
// §4.3.7 lists statistical, situational, contrarian, sharp, market, in
// that order).
type Roster []Persona

// Defaults is the compiled-in fallback roster, used when no config file is
// set.
func Defaults() Roster {
	return Roster{
		{
			ID:   "statistical",
			Name: "Statistical Analyst",
			PromptTemplate: "You are a statistical sports analyst. Given the following game data, " +
				"estimate the probability the home side wins, grounded only in the numbers provided. " +
				"Game data: %s\nRespond with a probability between 0 and 1 followed by your reasoning.",
		},
		{
			ID:   "situational",
			Name: "Situational Analyst",
			PromptTemplate: "You are a situational sports analyst focused on context: injuries, rest, " +
				"travel, and motivation. Game data: %s\nRespond with a probability between 0 and 1 " +
				"followed by your reasoning.",
		},
		{
			ID:   "contrarian",
			Name: "Contrarian Analyst",
			PromptTemplate: "You are a contrarian analyst who actively looks for reasons the public " +
				"consensus is wrong. Game data: %s\nRespond with a probability between 0 and 1 followed " +
				"by your reasoning.",
		},
		{
			ID:   "sharp",
			Name: "Sharp Bettor",
			PromptTemplate: "You are a professional sharp bettor who reasons about closing-line value. " +
				"Game data: %s\nRespond with a probability between 0 and 1 followed by your reasoning.",
		},
		{
			ID:   "market",
			Name: "Market Analyst",
			PromptTemplate: "You are a market analyst who reasons primarily from the implied probability " +
				"of the posted odds. Game data: %s\nRespond with a probability between 0 and 1 followed " +
				"by your reasoning.",
		},
	}
}

// fileFormat is the optional YAML config file shape.
type fileFormat struct {
	Personas Roster `yaml:"personas"`
}

// Load reads a persona roster from path. An empty path, or any read/parse
// failure, yields Defaults() rather than failing startup — a malformed
// persona file should degrade the AI consensus tool, not the whole process.
func Load(path string) Roster {
	if path == "" {
		return Defaults()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Defaults()
	}
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil || len(f.Personas) == 0 {
		return Defaults()
	}
	return f.Personas
}

// First returns the first n personas of the roster (bounded to the
// roster's length), per spec.md §4.3.7's expert-count argument.
func (r Roster) First(n int) Roster {
	if n <= 0 {
		return nil
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}
