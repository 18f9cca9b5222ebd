// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"pdfmatch/internal/formatters"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	matches := make([]map[string]interface{}, 0, len(report.Matches))
	for _, match := range report.Matches {
		matches = append(matches, match.ToMap())
	}

	payload := map[string]interface{}{
		"file":     report.File,
		"entity":   report.Entity,
		"strategy": report.Strategy,
		"count":    len(matches),
		"matches":  matches,
	}

	var (
		data []byte
		err  error
	)
	if options.Verbose {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", fmt.Errorf("error marshaling results to JSON: %w", err)
	}

	return string(data), nil
}

func init() {
	formatters.Register(NewFormatter())
}
