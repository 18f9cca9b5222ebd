// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextualMatch_MultiWord(t *testing.T) {
	strategy := NewContextualStrategy(3, 70.0)
	results := strategy.Match("Python Programming", sampleBounds())

	if len(results) != 1 {
		t.Fatalf("expected exactly one window match, got %d", len(results))
	}

	r := results[0]
	assert.Equal(t, 100.0, r.Confidence)
	assert.Equal(t, "python programming", r.Bound.Text)

	// Synthesized bound spans from the first window token's (x0,y0) to the
	// last window token's (x1,y1).
	assert.Equal(t, 10.0, r.Bound.X0)
	assert.Equal(t, 30.0, r.Bound.Y0)
	assert.Equal(t, 80.0, r.Bound.X1)
	assert.Equal(t, 35.0, r.Bound.Y1)
	assert.Equal(t, 0, r.Bound.Page)

	// Window +-3 covers the entire five-token page, original case.
	assert.Equal(t, "Hello World Python Programming hello", r.Context)
}

func TestContextualMatch_SingleWordWithContext(t *testing.T) {
	strategy := NewContextualStrategy(2, 90.0)
	results := strategy.Match("Python", sampleBounds())

	if len(results) == 0 {
		t.Fatal("expected a match for a literal single-word entity")
	}
	r := results[0]
	assert.Equal(t, 100.0, r.Confidence)
	// Context is clipped at group boundaries: two words each side.
	assert.Equal(t, "Hello World Python Programming hello", r.Context)
}

func TestContextualMatch_ContextClippedAtStart(t *testing.T) {
	strategy := NewContextualStrategy(3, 90.0)
	results := strategy.Match("Hello", sampleBounds())

	if len(results) == 0 {
		t.Fatal("expected a match at the first token")
	}
	// First window has nothing before it; context is the window plus three
	// following words.
	assert.Equal(t, "Hello World Python Programming", results[0].Context)
}

// Window spans are always exactly k consecutive same-page tokens.
func TestContextualMatch_WindowsNeverCrossPages(t *testing.T) {
	bounds := []TextBound{
		{Text: "Python", X0: 10, Y0: 90, X1: 40, Y1: 95, Page: 0},
		{Text: "Programming", X0: 10, Y0: 10, X1: 45, Y1: 15, Page: 1},
		{Text: "Python", X0: 10, Y0: 20, X1: 40, Y1: 25, Page: 1},
		{Text: "Programming", X0: 45, Y0: 20, X1: 80, Y1: 25, Page: 1},
	}
	strategy := NewContextualStrategy(3, 70.0)
	results := strategy.Match("Python Programming", bounds)

	if len(results) != 1 {
		t.Fatalf("expected 1 match (page-1 pair only), got %d", len(results))
	}
	assert.Equal(t, 1, results[0].Bound.Page)
	assert.Equal(t, 10.0, results[0].Bound.X0)
	assert.Equal(t, 80.0, results[0].Bound.X1)
}

// Overlapping windows that each clear the threshold all appear in the
// output, in ascending start index.
func TestContextualMatch_OverlappingWindowsKept(t *testing.T) {
	bounds := []TextBound{
		{Text: "alpha", Page: 0},
		{Text: "beta", Page: 0},
		{Text: "alpha", Page: 0},
		{Text: "beta", Page: 0},
	}
	strategy := NewContextualStrategy(1, 95.0)
	results := strategy.Match("alpha beta", bounds)

	if len(results) != 2 {
		t.Fatalf("expected 2 overlapping window matches, got %d", len(results))
	}
	assert.Equal(t, "alpha beta", results[0].Bound.Text)
	assert.Equal(t, "alpha beta", results[1].Bound.Text)
	// Ascending start index: the first result starts at token 0, the
	// second at token 2.
	assert.Equal(t, "alpha beta alpha", results[0].Context)
	assert.Equal(t, "beta alpha beta", results[1].Context)
}

func TestContextualMatch_EmptyEntity(t *testing.T) {
	strategy := NewContextualStrategy(3, 70.0)

	for _, entity := range []string{"", "   ", "\t\n"} {
		if results := strategy.Match(entity, sampleBounds()); len(results) != 0 {
			t.Errorf("entity %q: expected no matches, got %d", entity, len(results))
		}
	}
}

func TestContextualMatch_EntityLongerThanEveryPage(t *testing.T) {
	strategy := NewContextualStrategy(3, 70.0)
	entity := strings.Repeat("word ", 6) // six words, pages hold at most five
	if results := strategy.Match(entity, sampleBounds()); len(results) != 0 {
		t.Errorf("expected empty result sequence, got %d matches", len(results))
	}
}

func TestContextualMatch_WindowSpanLength(t *testing.T) {
	// Every reported span must cover exactly k consecutive tokens: the
	// synthesized text has exactly k space-joined words.
	strategy := NewContextualStrategy(0, 30.0)
	results := strategy.Match("Python Programming", sampleBounds())

	for _, r := range results {
		words := strings.Fields(r.Bound.Text)
		if len(words) != 2 {
			t.Errorf("window text %q spans %d words, want 2", r.Bound.Text, len(words))
		}
	}
}

func TestContextualMatch_ZeroContextWindow(t *testing.T) {
	strategy := NewContextualStrategy(0, 70.0)
	results := strategy.Match("Python Programming", sampleBounds())

	if len(results) != 1 {
		t.Fatalf("expected one match, got %d", len(results))
	}
	// Zero surrounding words: the context is exactly the original-case
	// window text.
	assert.Equal(t, "Python Programming", results[0].Context)
}
