// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreate_Exact(t *testing.T) {
	strategy, err := Create("exact", Params{})
	require.NoError(t, err)
	assert.IsType(t, &ExactStrategy{}, strategy)
}

func TestCreate_FuzzyWithThreshold(t *testing.T) {
	strategy, err := Create("fuzzy", Params{Threshold: floatPtr(85.0)})
	require.NoError(t, err)

	fuzzy, ok := strategy.(*FuzzyStrategy)
	require.True(t, ok)
	assert.Equal(t, 85.0, fuzzy.Threshold)
}

func TestCreate_FuzzyDefaultThreshold(t *testing.T) {
	strategy, err := Create("fuzzy", Params{})
	require.NoError(t, err)

	fuzzy, ok := strategy.(*FuzzyStrategy)
	require.True(t, ok)
	assert.Equal(t, DefaultFuzzyThreshold, fuzzy.Threshold)
}

func TestCreate_Contextual(t *testing.T) {
	strategy, err := Create("contextual", Params{Threshold: floatPtr(75.0), ContextWindow: intPtr(5)})
	require.NoError(t, err)

	contextual, ok := strategy.(*ContextualStrategy)
	require.True(t, ok)
	assert.Equal(t, 75.0, contextual.Threshold)
	assert.Equal(t, 5, contextual.ContextWindow)
}

func TestCreate_ContextualDefaults(t *testing.T) {
	strategy, err := Create("contextual", Params{})
	require.NoError(t, err)

	contextual, ok := strategy.(*ContextualStrategy)
	require.True(t, ok)
	assert.Equal(t, DefaultContextualThreshold, contextual.Threshold)
	assert.Equal(t, DefaultContextWindow, contextual.ContextWindow)
}

func TestCreate_CaseInsensitiveName(t *testing.T) {
	for _, name := range []string{"EXACT", "Exact", "exact", "FUZZY", "Contextual"} {
		strategy, err := Create(name, Params{Threshold: floatPtr(85.0)})
		require.NoError(t, err, "name %q", name)

		// Equivalent to creating with the lowercase name.
		lower, err := Create(strings.ToLower(name), Params{Threshold: floatPtr(85.0)})
		require.NoError(t, err)
		assert.Equal(t, lower, strategy, "name %q", name)
	}
}

func TestCreate_UnknownName(t *testing.T) {
	_, err := Create("bogus", Params{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
	// The error identifies the offending name and the valid set.
	assert.Contains(t, err.Error(), "bogus")
	for _, name := range Names() {
		assert.Contains(t, err.Error(), name)
	}
}

// Parameters not applicable to a strategy are silently ignored.
func TestCreate_UnrelatedParamsIgnored(t *testing.T) {
	strategy, err := Create("exact", Params{Threshold: floatPtr(85.0), ContextWindow: intPtr(5)})
	require.NoError(t, err)
	assert.IsType(t, &ExactStrategy{}, strategy)

	fuzzy, err := Create("fuzzy", Params{ContextWindow: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, DefaultFuzzyThreshold, fuzzy.(*FuzzyStrategy).Threshold)
}

func TestCreate_InvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		params Params
	}{
		{"fuzzy", Params{Threshold: floatPtr(-1.0)}},
		{"fuzzy", Params{Threshold: floatPtr(101.0)}},
		{"contextual", Params{Threshold: floatPtr(150.0)}},
		{"contextual", Params{ContextWindow: intPtr(-1)}},
	}
	for _, tc := range cases {
		_, err := Create(tc.name, tc.params)
		require.Error(t, err, "%s %+v", tc.name, tc.params)
		assert.True(t, errors.Is(err, ErrInvalidParam))
	}
}

func TestAll(t *testing.T) {
	strategies, err := All(Params{Threshold: floatPtr(90.0)})
	require.NoError(t, err)
	require.Len(t, strategies, 3)

	assert.IsType(t, &ExactStrategy{}, strategies["exact"])
	assert.Equal(t, 90.0, strategies["fuzzy"].(*FuzzyStrategy).Threshold)
	assert.Equal(t, 90.0, strategies["contextual"].(*ContextualStrategy).Threshold)
	assert.Equal(t, DefaultContextWindow, strategies["contextual"].(*ContextualStrategy).ContextWindow)
}

func TestDescribe(t *testing.T) {
	infos := Describe()
	require.Len(t, infos, 3)

	byName := make(map[string][]string)
	for _, info := range infos {
		var params []string
		for _, p := range info.Parameters {
			params = append(params, p.Name)
		}
		byName[info.Name] = params
		assert.NotEmpty(t, info.ShortDescription)
	}

	assert.Empty(t, byName["exact"])
	assert.Equal(t, []string{"threshold"}, byName["fuzzy"])
	assert.Equal(t, []string{"threshold", "context_window"}, byName["contextual"])
}
