// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractor pulls positioned word tokens out of PDF documents.
// It is the producing side of the matcher contract: every extracted word
// becomes one matcher.TextBound with its page-space bounding box.
package extractor

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfmatch/internal/matcher"
)

// maxPages caps processing for very large PDFs to keep extraction time
// reasonable; pages beyond the cap are skipped.
const maxPages = 50

// defaultFontSize is assumed when a text fragment carries no font size.
const defaultFontSize = 12.0

// wordGapFactor scales the font size into the minimum horizontal gap that
// separates two words on the same row.
const wordGapFactor = 0.2

// Extractor extracts text and position information from a PDF file
type Extractor struct {
	path      string
	pdfConfig *model.Configuration
}

// New creates an extractor for the given PDF file
func New(path string) *Extractor {
	return &Extractor{
		path:      path,
		pdfConfig: model.NewDefaultConfiguration(),
	}
}

// Validate checks that the file exists and is a structurally valid PDF
func (e *Extractor) Validate() error {
	if _, err := os.Stat(e.path); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", e.path)
	}

	if err := api.ValidateFile(e.path, e.pdfConfig); err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}

	return nil
}

// ExtractBounds extracts every word from the PDF together with its bounding
// box. Words are emitted in reading order: pages first, rows top to bottom,
// words left to right. Pages are zero-based in the returned bounds.
func (e *Extractor) ExtractBounds() ([]matcher.TextBound, error) {
	f, r, err := pdf.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	var bounds []matcher.TextBound
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		for _, row := range sortedRows(p) {
			bounds = append(bounds, rowWords(row.Content, pageNum-1)...)
		}
	}

	return bounds, nil
}

// ExtractFullText extracts all text from the PDF without position
// information, one line per visual row.
func (e *Extractor) ExtractFullText() (string, error) {
	f, r, err := pdf.Open(e.path)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > maxPages {
		pageCount = maxPages
	}

	var lines []string
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		for _, row := range sortedRows(p) {
			words := rowWords(row.Content, pageNum-1)
			if len(words) == 0 {
				continue
			}
			texts := make([]string, len(words))
			for i, w := range words {
				texts[i] = w.Text
			}
			lines = append(lines, strings.Join(texts, " "))
		}
	}

	return strings.Join(lines, "\n"), nil
}

// sortedRows returns the page's text rows sorted by Y coordinate for proper
// reading order. Rows that fail to extract fall back to an empty set.
func sortedRows(p pdf.Page) []*pdf.Row {
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) < averageY(sorted[j].Content)
	})

	return sorted
}

// averageY calculates the average Y coordinate for text fragments in a row
func averageY(fragments []pdf.Text) float64 {
	if len(fragments) == 0 {
		return 0
	}

	var totalY float64
	for _, fragment := range fragments {
		totalY += fragment.Y
	}
	return totalY / float64(len(fragments))
}

// rowWords assembles the word bounds of one visual row. Fragments are
// ordered left to right, fragments containing spaces are exploded into
// space-free pieces, and adjacent pieces are grouped into one word unless
// the horizontal gap between them exceeds the font-size-scaled threshold.
func rowWords(fragments []pdf.Text, page int) []matcher.TextBound {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var pieces []pdf.Text
	for _, fragment := range sorted {
		pieces = append(pieces, explodeFragment(fragment)...)
	}
	if len(pieces) == 0 {
		return nil
	}

	var words []matcher.TextBound
	var current []pdf.Text
	for i, piece := range pieces {
		if i > 0 {
			prev := pieces[i-1]
			gap := piece.X - (prev.X + prev.W)
			if gap > fontSizeOf(prev)*wordGapFactor {
				words = append(words, wordBound(current, page))
				current = nil
			}
		}
		current = append(current, piece)
	}
	words = append(words, wordBound(current, page))

	return words
}

// explodeFragment splits a fragment whose text contains spaces into
// space-free sub-fragments, allocating widths proportionally to rune count.
// Whitespace-only fragments are dropped.
func explodeFragment(fragment pdf.Text) []pdf.Text {
	if strings.TrimSpace(fragment.S) == "" {
		return nil
	}
	if !strings.Contains(fragment.S, " ") {
		return []pdf.Text{fragment}
	}

	total := utf8.RuneCountInString(fragment.S)
	unit := fragment.W / float64(total)

	var pieces []pdf.Text
	offset := 0
	for _, part := range strings.Split(fragment.S, " ") {
		if part != "" {
			piece := fragment
			piece.S = part
			piece.X = fragment.X + unit*float64(offset)
			piece.W = unit * float64(utf8.RuneCountInString(part))
			pieces = append(pieces, piece)
		}
		offset += utf8.RuneCountInString(part) + 1
	}

	return pieces
}

// wordBound merges a run of space-free fragments into one word bound.
// The box spans from the first fragment's X to the end of the last one;
// the height is approximated from the font size above the baseline.
func wordBound(fragments []pdf.Text, page int) matcher.TextBound {
	var text strings.Builder
	for _, fragment := range fragments {
		text.WriteString(fragment.S)
	}

	first := fragments[0]
	last := fragments[len(fragments)-1]

	return matcher.TextBound{
		Text: text.String(),
		X0:   first.X,
		Y0:   first.Y,
		X1:   last.X + last.W,
		Y1:   first.Y + fontSizeOf(first),
		Page: page,
	}
}

func fontSizeOf(fragment pdf.Text) float64 {
	if fragment.FontSize <= 0 {
		return defaultFontSize
	}
	return fragment.FontSize
}
