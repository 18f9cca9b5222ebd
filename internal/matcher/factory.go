// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"errors"
	"fmt"
	"strings"

	"pdfmatch/internal/help"
)

// ErrUnknownStrategy is returned by Create for unrecognized strategy names.
var ErrUnknownStrategy = errors.New("unknown strategy type")

// ErrInvalidParam is returned by Create for out-of-range parameter values.
var ErrInvalidParam = errors.New("invalid strategy parameter")

// Params carries optional strategy parameters. Nil fields mean "use the
// strategy default". Parameters not applicable to the requested strategy
// are silently ignored by it.
type Params struct {
	Threshold     *float64
	ContextWindow *int
}

// Names returns the set of valid strategy names.
func Names() []string {
	return []string{"exact", "fuzzy", "contextual"}
}

// Create builds a matching strategy by name. The name is matched
// case-insensitively; unrecognized names fail with ErrUnknownStrategy.
// Parameters are validated at construction: thresholds must lie in [0,100]
// and the context window must be non-negative.
func Create(name string, params Params) (Strategy, error) {
	switch strings.ToLower(name) {
	case "exact":
		return NewExactStrategy(), nil

	case "fuzzy":
		threshold := DefaultFuzzyThreshold
		if params.Threshold != nil {
			threshold = *params.Threshold
		}
		if threshold < 0 || threshold > 100 {
			return nil, fmt.Errorf("%w: threshold %v outside [0,100]", ErrInvalidParam, threshold)
		}
		return NewFuzzyStrategy(threshold), nil

	case "contextual":
		threshold := DefaultContextualThreshold
		if params.Threshold != nil {
			threshold = *params.Threshold
		}
		contextWindow := DefaultContextWindow
		if params.ContextWindow != nil {
			contextWindow = *params.ContextWindow
		}
		if threshold < 0 || threshold > 100 {
			return nil, fmt.Errorf("%w: threshold %v outside [0,100]", ErrInvalidParam, threshold)
		}
		if contextWindow < 0 {
			return nil, fmt.Errorf("%w: context_window %d is negative", ErrInvalidParam, contextWindow)
		}
		return NewContextualStrategy(contextWindow, threshold), nil

	default:
		return nil, fmt.Errorf("%w: %q (available types: %s)",
			ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
}

// All returns one instance of each strategy, built with a shared parameter
// set. Parameters not applicable to a strategy are ignored by it. The
// shared threshold must be valid for every strategy that uses one.
func All(params Params) (map[string]Strategy, error) {
	result := make(map[string]Strategy, len(Names()))
	for _, name := range Names() {
		strategy, err := Create(name, params)
		if err != nil {
			return nil, err
		}
		result[name] = strategy
	}
	return result, nil
}

// Describe returns discovery metadata for every strategy: display name,
// description, and the recognized parameter set with types and defaults.
// Consumed by the CLI help system and the web API.
func Describe() []help.StrategyInfo {
	infos := make([]help.StrategyInfo, 0, len(Names()))
	for _, name := range Names() {
		strategy, _ := Create(name, Params{})
		if provider, ok := strategy.(help.Provider); ok {
			infos = append(infos, provider.GetStrategyInfo())
		}
	}
	return infos
}
