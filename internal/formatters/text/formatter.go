// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"pdfmatch/internal/formatters"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var sb strings.Builder

	sb.WriteString(f.colors["white"].Sprintf("Entity: %s", report.Entity))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("File: %s\n", report.File))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n\n", report.Strategy))

	if len(report.Matches) == 0 {
		sb.WriteString("No matches found.\n")
		return sb.String(), nil
	}

	sb.WriteString(f.colors["cyan"].Sprintf("Found %d match(es):", len(report.Matches)))
	sb.WriteString("\n\n")

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEXT\tCONFIDENCE\tPAGE\tPOSITION")
	for _, match := range report.Matches {
		fmt.Fprintf(w, "%s\t%s\t%d\t(%.1f, %.1f) - (%.1f, %.1f)\n",
			match.Bound.Text,
			f.confidenceLabel(match.Confidence),
			match.Bound.Page,
			match.Bound.X0, match.Bound.Y0, match.Bound.X1, match.Bound.Y1)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("error formatting match table: %w", err)
	}

	if options.Verbose {
		for _, match := range report.Matches {
			if match.Context != "" {
				sb.WriteString("\n")
				sb.WriteString(fmt.Sprintf("Context for %q: %s\n", match.Bound.Text, match.Context))
			}
		}
	}

	return sb.String(), nil
}

// confidenceLabel colors a confidence value by band
func (f *Formatter) confidenceLabel(confidence float64) string {
	text := fmt.Sprintf("%.1f%%", confidence)
	switch {
	case confidence >= 90:
		return f.colors["green"].Sprint(text)
	case confidence >= 70:
		return f.colors["yellow"].Sprint(text)
	default:
		return f.colors["red"].Sprint(text)
	}
}

func init() {
	formatters.Register(NewFormatter())
}
