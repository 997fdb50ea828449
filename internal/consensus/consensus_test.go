package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/sports-tool-server/internal/model"
)

func opinions(probs ...float64) []model.ExpertOpinion {
	out := make([]model.ExpertOpinion, len(probs))
	for i, p := range probs {
		out[i] = model.ExpertOpinion{ExpertID: "e", Probability: p}
	}
	return out
}

func TestSummarize_WorkedExample(t *testing.T) {
	market := 0.408
	got, err := Summarize(opinions(0.58, 0.55, 0.57), &market)
	require.NoError(t, err)

	assert.InDelta(t, 0.5667, got.Mean, 0.001)
	edge, ok := Edge(got.Mean, &market)
	require.True(t, ok)
	assert.InDelta(t, 0.159, edge, 0.001)
	assert.Equal(t, "BET HOME", got.Recommendation)
	assert.Greater(t, got.Alpha, 0.0)
	assert.Greater(t, got.Beta, 0.0)
	assert.LessOrEqual(t, got.Variance, got.Mean*(1-got.Mean))
}

func TestSummarize_NoMarketIsInfoOnly(t *testing.T) {
	got, err := Summarize(opinions(0.5, 0.6), nil)
	require.NoError(t, err)
	assert.Equal(t, "INFO ONLY", got.Recommendation)
}

func TestSummarize_SingleOpinionUsesFixedPrior(t *testing.T) {
	market := 0.5
	got, err := Summarize(opinions(0.5), &market)
	require.NoError(t, err)
	assert.Equal(t, "PASS", got.Recommendation)
	assert.Greater(t, got.Alpha, 0.0)
	assert.Greater(t, got.Beta, 0.0)
}

func TestSummarize_EmptyIsConsensusError(t *testing.T) {
	_, err := Summarize(nil, nil)
	require.Error(t, err)
}

func TestSummarize_RecommendationThresholds(t *testing.T) {
	cases := []struct {
		mean   float64
		market float64
		want   string
	}{
		{0.50, 0.50, "PASS"},
		{0.54, 0.50, "LEAN HOME"},
		{0.46, 0.50, "LEAN AWAY"},
		{0.57, 0.50, "BET HOME"},
		{0.43, 0.50, "BET AWAY"},
	}
	for _, c := range cases {
		got := recommend(c.mean, &c.market)
		assert.Equal(t, c.want, got, "mean=%v market=%v", c.mean, c.market)
	}
}

func TestSummarize_VarianceNeverExceedsCeiling(t *testing.T) {
	got, err := Summarize(opinions(0.01, 0.99), nil)
	require.NoError(t, err)
	ceiling := got.Mean * (1 - got.Mean)
	assert.True(t, got.Variance < ceiling || math.Abs(got.Variance-ceiling) < 1e-9)
}
