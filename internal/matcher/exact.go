// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"

	"pdfmatch/internal/help"
)

// ExactStrategy matches tokens by case-insensitive full-string equality.
// Tokens are single words, so multi-word entities never match under this
// strategy; that behavior is intentional.
type ExactStrategy struct{}

// NewExactStrategy creates a new exact matching strategy
func NewExactStrategy() *ExactStrategy {
	return &ExactStrategy{}
}

func (s *ExactStrategy) Name() string {
	return "exact"
}

// Match returns one result with confidence 100.0 for every token whose text
// equals the entity ignoring case, in input token order.
func (s *ExactStrategy) Match(entity string, bounds []TextBound) []MatchResult {
	var results []MatchResult
	entityLower := strings.ToLower(entity)

	for _, bound := range bounds {
		if strings.ToLower(bound.Text) == entityLower {
			results = append(results, MatchResult{Bound: bound, Confidence: 100.0})
		}
	}

	return results
}

// GetStrategyInfo returns standardized information about the exact strategy
func (s *ExactStrategy) GetStrategyInfo() help.StrategyInfo {
	return help.StrategyInfo{
		Name:             "exact",
		DisplayName:      "Exact",
		ShortDescription: "Exact string matching",
		DetailedDescription: `The Exact strategy matches the entity against each extracted word using case-insensitive full-string equality. Every equal word yields a match with confidence 100.

Words are single tokens, so entities containing spaces can never match under this strategy; use the contextual strategy for multi-word entities.`,
		Parameters: nil,
		Examples: []string{
			"pdfmatch --file invoice.pdf --entity \"Acme\" --strategy exact",
			"pdfmatch --file invoice.pdf --entity \"2024\" --strategy exact --format json",
		},
	}
}
