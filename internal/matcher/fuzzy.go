// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"

	"pdfmatch/internal/help"
)

// DefaultFuzzyThreshold is the minimum confidence score kept by the fuzzy
// strategy when no threshold is configured.
const DefaultFuzzyThreshold = 80.0

// FuzzyStrategy matches tokens by case-insensitive edit-distance similarity.
// Like Exact it compares the whole entity against single words, so
// multi-word entities generally score low.
type FuzzyStrategy struct {
	// Threshold is the minimum confidence score to keep a match (0-100).
	// Read-only after construction.
	Threshold float64
}

// NewFuzzyStrategy creates a new fuzzy matching strategy
func NewFuzzyStrategy(threshold float64) *FuzzyStrategy {
	return &FuzzyStrategy{Threshold: threshold}
}

func (s *FuzzyStrategy) Name() string {
	return "fuzzy"
}

// Match returns one result per token whose similarity ratio against the
// entity is at least the threshold, in input token order. No re-ranking by
// confidence is performed.
func (s *FuzzyStrategy) Match(entity string, bounds []TextBound) []MatchResult {
	var results []MatchResult
	entityLower := strings.ToLower(entity)

	for _, bound := range bounds {
		confidence := Ratio(entityLower, strings.ToLower(bound.Text))
		if confidence >= s.Threshold {
			results = append(results, MatchResult{Bound: bound, Confidence: confidence})
		}
	}

	return results
}

// GetStrategyInfo returns standardized information about the fuzzy strategy
func (s *FuzzyStrategy) GetStrategyInfo() help.StrategyInfo {
	return help.StrategyInfo{
		Name:             "fuzzy",
		DisplayName:      "Fuzzy",
		ShortDescription: "Fuzzy matching using Levenshtein distance",
		DetailedDescription: `The Fuzzy strategy scores every extracted word against the entity with a case-insensitive Levenshtein similarity ratio scaled to 0-100. Identical strings score 100, completely dissimilar strings approach 0. Words scoring at or above the threshold are reported with their ratio as the confidence.

Useful for entities that may appear with typos or OCR artifacts. The comparison is word against word, so multi-word entities are better served by the contextual strategy.`,
		Parameters: []help.ParameterInfo{
			{Name: "threshold", Type: "float", Default: DefaultFuzzyThreshold, Description: "Minimum confidence score (0-100)"},
		},
		Examples: []string{
			"pdfmatch --file scan.pdf --entity \"Johnson\" --strategy fuzzy",
			"pdfmatch --file scan.pdf --entity \"Johnson\" --strategy fuzzy --threshold 90",
		},
	}
}
