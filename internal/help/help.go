// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ParameterInfo describes one configurable parameter of a matching strategy
type ParameterInfo struct {
	Name        string // Parameter name (e.g., "threshold")
	Type        string // Parameter type ("float" or "int")
	Default     any    // Default value applied when the parameter is omitted
	Description string // Human-readable description
}

// StrategyInfo contains standardized information about a matching strategy
type StrategyInfo struct {
	Name                string          // Strategy name used by the factory (e.g., "fuzzy")
	DisplayName         string          // Display name for help output
	ShortDescription    string          // Short description for the strategies list
	DetailedDescription string          // Detailed description of how the strategy matches
	Parameters          []ParameterInfo // Recognized parameters with defaults
	Examples            []string        // Usage examples
}

// Provider defines the interface for help content providers
type Provider interface {
	GetStrategyInfo() StrategyInfo
}

// System manages help content for the application
type System struct {
	providers map[string]Provider
	noColor   bool
	colors    map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		providers: make(map[string]Provider),
		noColor:   noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"subtitle": color.New(color.FgCyan, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"warning":  color.New(color.FgYellow),
			"example":  color.New(color.FgMagenta),
		},
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetStrategyInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("pdfmatch - PDF Entity Bounds Matching Tool")
	fmt.Println("==========================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  pdfmatch --file <path-to-pdf> --entity <text> [options]")
	fmt.Println("  pdfmatch --web [--port <port>]  # Web server mode")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tPath to the PDF file to search (required in CLI mode)")
	fmt.Fprintln(w, "  --entity\t<text>\tEntity text to locate in the PDF (required in CLI mode)")
	fmt.Fprintln(w, "  --strategy\t<name>\tMatching strategy: exact, fuzzy, contextual (default: exact)")
	fmt.Fprintln(w, "  --threshold\t<score>\tMinimum confidence score for fuzzy/contextual matching (0-100)")
	fmt.Fprintln(w, "  --context-window\t<n>\tSurrounding words included as context for contextual matching (default: 3)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, csv (default: text)")
	fmt.Fprintln(w, "  --output\t<path>\tPath to output file (if not specified, output to stdout)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --full-text\t\tPrint the extracted PDF text and exit (no matching)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay detailed information for each match")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --list-strategies\t\tList all available matching strategies")
	fmt.Fprintln(w, "  --web\t\tStart web server mode instead of CLI matching")
	fmt.Fprintln(w, "  --port\t<port>\tPort for web server (default: 8080, only used with --web)")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help strategies\t\tList all available strategies")
	fmt.Fprintln(w, "  --help <strategy>\t\tShow detailed help for a specific strategy")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	fmt.Println("  Basic Usage:")
	h.colors["example"].Println("    pdfmatch --file contract.pdf --entity \"Acme Corp\"")
	h.colors["example"].Println("    pdfmatch --file report.pdf --entity \"Jane Smith\" --strategy fuzzy --threshold 85")
	fmt.Println("  Multi-word entities:")
	h.colors["example"].Println("    pdfmatch --file report.pdf --entity \"New York City\" --strategy contextual")
	fmt.Println()
	h.colors["header"].Println("Web Server Examples:")
	h.colors["example"].Println("  pdfmatch --web  # Start web server on default port")
	h.colors["example"].Println("  pdfmatch --web --port 9000  # Start web server on custom port")
	fmt.Println()
	h.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Default config: ~/.pdfmatch/config.yaml")
	fmt.Println("  Project config: pdfmatch.yaml or .pdfmatch.yaml (in current directory)")
}

// ShowStrategiesHelp displays information about all available strategies
func (h *System) ShowStrategiesHelp() {
	h.colors["title"].Println("Available Matching Strategies")
	fmt.Println("=============================")
	fmt.Println()
	fmt.Println("The following strategies are available for locating entities in a PDF:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  STRATEGY\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  --------\t-----------")

	var names []string
	for name := range h.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := h.providers[name].GetStrategyInfo()
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", info.Name)
		fmt.Fprintf(w, "\t%s\n", info.ShortDescription)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("For detailed information about a specific strategy, use:")
	h.colors["example"].Println("  pdfmatch --help <strategy>")
}

// ShowStrategyHelp displays detailed help for a specific strategy
func (h *System) ShowStrategyHelp(name string) bool {
	provider, exists := h.providers[strings.ToLower(name)]
	if !exists {
		h.colors["warning"].Printf("Error: Strategy '%s' not found.\n", name)
		fmt.Println("Use 'pdfmatch --help strategies' to see a list of available strategies.")
		return false
	}

	info := provider.GetStrategyInfo()

	h.colors["title"].Printf("%s Strategy\n", info.DisplayName)
	fmt.Println(strings.Repeat("=", len(info.DisplayName)+9))
	fmt.Println()
	fmt.Println(info.DetailedDescription)
	fmt.Println()

	h.colors["header"].Println("PARAMETERS:")
	if len(info.Parameters) == 0 {
		fmt.Println("  (none)")
	}
	for _, param := range info.Parameters {
		fmt.Print("  - ")
		h.colors["item"].Printf("%s", param.Name)
		fmt.Printf(" (%s, default %v): %s\n", param.Type, param.Default, param.Description)
	}
	fmt.Println()

	if len(info.Examples) > 0 {
		h.colors["header"].Println("EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Print("  ")
			h.colors["example"].Println(example)
		}
	}

	return true
}
