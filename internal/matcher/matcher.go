// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher locates entity strings inside a sequence of positioned
// PDF text tokens and reports their bounding boxes with confidence scores.
package matcher

// TextBound represents one positioned text token on one page.
// Coordinates are in page space; the PDF extractor is responsible for
// producing well-formed boxes. Values are never mutated after construction.
type TextBound struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Page int     `json:"page"` // zero-based page index
}

// ToMap converts the bound to a flat key-value representation for transport
func (tb TextBound) ToMap() map[string]any {
	return map[string]any{
		"text": tb.Text,
		"x0":   tb.X0,
		"y0":   tb.Y0,
		"x1":   tb.X1,
		"y1":   tb.Y1,
		"page": tb.Page,
	}
}

// MatchResult pairs a matched (possibly synthesized) text bound with a
// confidence score in [0,100]. Context is empty except for contextual
// matches, where it holds the original-case surrounding text.
type MatchResult struct {
	Bound      TextBound `json:"match"`
	Confidence float64   `json:"confidence"`
	Context    string    `json:"context,omitempty"`
}

// ToMap converts the result to a key-value representation for transport.
// The context key is present only when context was captured.
func (mr MatchResult) ToMap() map[string]any {
	result := map[string]any{
		"match":      mr.Bound.ToMap(),
		"confidence": mr.Confidence,
	}
	if mr.Context != "" {
		result["context"] = mr.Context
	}
	return result
}

// Strategy is the contract every matching strategy implements. Match scans
// the token sequence for the entity and returns matches in scan order.
// Implementations are pure: no shared mutable state after construction, so
// a single instance is safe for concurrent Match calls.
type Strategy interface {
	// Match finds matches for an entity in the extracted text bounds
	Match(entity string, bounds []TextBound) []MatchResult

	// Name returns the factory name of the strategy (e.g., "fuzzy")
	Name() string
}
