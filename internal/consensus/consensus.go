// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package consensus is the pure, I/O-free Beta-distribution engine of
// spec.md §4.5: it collapses a set of expert probabilities into a
// method-of-moments Beta fit and a recommendation.
package consensus

import (
	"math"

	"github.com/AleutianAI/sports-tool-server/internal/model"
	"github.com/AleutianAI/sports-tool-server/internal/toolerr"
)

const (
	varianceFloor    = 1e-6
	leanThreshold    = 0.03
	betThreshold     = 0.06
	fixedPriorVariance = 0.01
)

// Summarize fits a Beta distribution to opinions by method of moments and
// applies the recommendation rule against pMarket (nil when no market
// probability was supplied).
func Summarize(opinions []model.ExpertOpinion, pMarket *float64) (model.BetaConsensus, error) {
	if len(opinions) == 0 {
		return model.BetaConsensus{}, &toolerr.ConsensusError{Reason: "no expert opinions succeeded"}
	}

	mean := 0.0
	for _, o := range opinions {
		mean += o.Probability
	}
	mean /= float64(len(opinions))

	variance := fixedPriorVariance
	if len(opinions) >= 2 {
		var sumSq float64
		for _, o := range opinions {
			d := o.Probability - mean
			sumSq += d * d
		}
		variance = sumSq / float64(len(opinions)-1)
	}

	ceiling := mean * (1 - mean)
	if variance < varianceFloor {
		variance = varianceFloor
	}
	if ceiling > 0 && variance >= ceiling {
		variance = ceiling * 0.999
	}
	if variance <= 0 {
		variance = varianceFloor
	}

	factor := mean*(1-mean)/variance - 1
	alpha := mean * factor
	beta := (1 - mean) * factor

	recommendation := recommend(mean, pMarket)

	return model.BetaConsensus{
		Mean:           mean,
		Variance:       variance,
		Alpha:          alpha,
		Beta:           beta,
		Recommendation: recommendation,
	}, nil
}

func recommend(mean float64, pMarket *float64) string {
	if pMarket == nil {
		// No edge to compute without a market price; callers read Mean directly.
		return "INFO ONLY"
	}
	edge := mean - *pMarket
	abs := math.Abs(edge)
	switch {
	case abs < leanThreshold:
		return "PASS"
	case abs < betThreshold:
		if edge > 0 {
			return "LEAN HOME"
		}
		return "LEAN AWAY"
	default:
		if edge > 0 {
			return "BET HOME"
		}
		return "BET AWAY"
	}
}

// Edge returns the signed difference between mean and pMarket, and whether
// a market probability was supplied at all.
func Edge(mean float64, pMarket *float64) (float64, bool) {
	if pMarket == nil {
		return 0, false
	}
	return mean - *pMarket, true
}
