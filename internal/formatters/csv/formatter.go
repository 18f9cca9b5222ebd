// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"pdfmatch/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	headers := []string{"File", "Entity", "Strategy", "Text", "Confidence", "Page", "X0", "Y0", "X1", "Y1"}
	if options.Verbose {
		headers = append(headers, "Context")
	}
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, match := range report.Matches {
		row := []string{
			report.File,
			report.Entity,
			report.Strategy,
			match.Bound.Text,
			strconv.FormatFloat(match.Confidence, 'f', 1, 64),
			strconv.Itoa(match.Bound.Page),
			strconv.FormatFloat(match.Bound.X0, 'f', 2, 64),
			strconv.FormatFloat(match.Bound.Y0, 'f', 2, 64),
			strconv.FormatFloat(match.Bound.X1, 'f', 2, 64),
			strconv.FormatFloat(match.Bound.Y1, 'f', 2, 64),
		}
		if options.Verbose {
			row = append(row, match.Context)
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV output: %w", err)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func init() {
	formatters.Register(NewFormatter())
}
