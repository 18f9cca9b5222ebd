// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"

	"pdfmatch/internal/help"
)

// Default parameter values for the contextual strategy.
const (
	DefaultContextualThreshold = 70.0
	DefaultContextWindow       = 3
)

// ContextualStrategy matches multi-word entities against sliding windows of
// consecutive same-page tokens and reports the surrounding text as context.
type ContextualStrategy struct {
	// ContextWindow is the number of tokens included on each side of a
	// match as context. Read-only after construction.
	ContextWindow int
	// Threshold is the minimum confidence score to keep a match (0-100).
	// Read-only after construction.
	Threshold float64
}

// NewContextualStrategy creates a new contextual matching strategy
func NewContextualStrategy(contextWindow int, threshold float64) *ContextualStrategy {
	return &ContextualStrategy{ContextWindow: contextWindow, Threshold: threshold}
}

func (s *ContextualStrategy) Name() string {
	return "contextual"
}

// Match splits the entity into k whitespace-delimited words and slides a
// k-token window over each page group, scoring the lowercased window text
// against the lowercased entity. Windows never cross page boundaries.
// Overlapping windows that clear the threshold all appear in the output,
// in ascending start index within each page; pages are visited in
// first-seen input order. An empty entity yields no matches.
func (s *ContextualStrategy) Match(entity string, bounds []TextBound) []MatchResult {
	var results []MatchResult

	entityLower := strings.ToLower(entity)
	entityWords := strings.Fields(entityLower)
	k := len(entityWords)
	if k == 0 {
		return nil
	}

	// Group bounds by page, preserving relative order within each group
	// and first-seen page order.
	groups := make(map[int][]TextBound)
	var pageOrder []int
	for _, bound := range bounds {
		if _, seen := groups[bound.Page]; !seen {
			pageOrder = append(pageOrder, bound.Page)
		}
		groups[bound.Page] = append(groups[bound.Page], bound)
	}

	for _, page := range pageOrder {
		group := groups[page]
		for i := 0; i+k <= len(group); i++ {
			windowWords := make([]string, k)
			for j := 0; j < k; j++ {
				windowWords[j] = strings.ToLower(group[i+j].Text)
			}
			windowText := strings.Join(windowWords, " ")

			confidence := Ratio(entityLower, windowText)
			if confidence < s.Threshold {
				continue
			}

			results = append(results, MatchResult{
				Bound:      mergeBounds(group[i], group[i+k-1], windowText, page),
				Confidence: confidence,
				Context:    s.contextText(group, i, k),
			})
		}
	}

	return results
}

// mergeBounds synthesizes a bound spanning a contiguous token run: corners
// from the first token's (x0,y0) to the last token's (x1,y1).
func mergeBounds(first, last TextBound, text string, page int) TextBound {
	return TextBound{
		Text: text,
		X0:   first.X0,
		Y0:   first.Y0,
		X1:   last.X1,
		Y1:   last.Y1,
		Page: page,
	}
}

// contextText joins the original-case text of the window plus up to
// ContextWindow tokens on each side, clipped at the page group boundaries.
func (s *ContextualStrategy) contextText(group []TextBound, start, k int) string {
	contextStart := start - s.ContextWindow
	if contextStart < 0 {
		contextStart = 0
	}
	contextEnd := start + k + s.ContextWindow
	if contextEnd > len(group) {
		contextEnd = len(group)
	}

	words := make([]string, 0, contextEnd-contextStart)
	for j := contextStart; j < contextEnd; j++ {
		words = append(words, group[j].Text)
	}
	return strings.Join(words, " ")
}

// GetStrategyInfo returns standardized information about the contextual strategy
func (s *ContextualStrategy) GetStrategyInfo() help.StrategyInfo {
	return help.StrategyInfo{
		Name:             "contextual",
		DisplayName:      "Contextual",
		ShortDescription: "Contextual matching considering surrounding text",
		DetailedDescription: `The Contextual strategy handles multi-word entities. The entity is split into k words and every window of k consecutive words on the same page is scored against it with the same similarity ratio as the fuzzy strategy. A matching window yields a synthesized bounding box spanning from the first window word to the last, and the surrounding words (context_window on each side) are reported as context for human review.

Overlapping windows that each clear the threshold are all reported; no deduplication or ranking is applied.`,
		Parameters: []help.ParameterInfo{
			{Name: "threshold", Type: "float", Default: DefaultContextualThreshold, Description: "Minimum confidence score (0-100)"},
			{Name: "context_window", Type: "int", Default: DefaultContextWindow, Description: "Number of surrounding words to consider"},
		},
		Examples: []string{
			"pdfmatch --file contract.pdf --entity \"Acme Holdings Ltd\" --strategy contextual",
			"pdfmatch --file contract.pdf --entity \"New York\" --strategy contextual --context-window 5",
		},
	}
}
