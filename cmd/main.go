// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"pdfmatch/internal/config"
	"pdfmatch/internal/extractor"
	"pdfmatch/internal/help"
	"pdfmatch/internal/matcher"
	"pdfmatch/internal/version"
	"pdfmatch/internal/web"

	"pdfmatch/internal/formatters"
	_ "pdfmatch/internal/formatters/csv"
	_ "pdfmatch/internal/formatters/json"
	_ "pdfmatch/internal/formatters/text"

	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	inputFile     string
	entity        string
	strategy      string
	threshold     float64
	contextWindow int
	format        string
	outputFile    string
	fullText      bool
	verbose       bool
	noColor       bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format        string
	strategy      string
	threshold     *float64
	contextWindow *int
	verbose       bool
	noColor       bool
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// resolveConfiguration resolves final values from config file and command
// line flags. Flags that were set explicitly win over the config file.
func resolveConfiguration(cfg *config.Config, flags *configFlags, setFlags map[string]bool) *finalConfiguration {
	final := &finalConfiguration{}

	final.format = cfg.Defaults.Format
	if setFlags["format"] {
		final.format = flags.format
	}

	final.strategy = cfg.Defaults.Strategy
	if setFlags["strategy"] {
		final.strategy = flags.strategy
	}

	// Thresholds stay nil unless set somewhere, so strategy defaults apply.
	switch strings.ToLower(final.strategy) {
	case "fuzzy":
		if cfg.Matching.FuzzyThreshold != matcher.DefaultFuzzyThreshold {
			v := cfg.Matching.FuzzyThreshold
			final.threshold = &v
		}
	case "contextual":
		if cfg.Matching.ContextualThreshold != matcher.DefaultContextualThreshold {
			v := cfg.Matching.ContextualThreshold
			final.threshold = &v
		}
	}
	if setFlags["threshold"] {
		v := flags.threshold
		final.threshold = &v
	}

	if cfg.Matching.ContextWindow != matcher.DefaultContextWindow {
		v := cfg.Matching.ContextWindow
		final.contextWindow = &v
	}
	if setFlags["context-window"] {
		v := flags.contextWindow
		final.contextWindow = &v
	}

	final.verbose = cfg.Defaults.Verbose || flags.verbose
	final.noColor = cfg.Defaults.NoColor || flags.noColor

	// Disable colors when stdout is not a terminal
	if !final.noColor && !isTerminal(os.Stdout) {
		final.noColor = true
	}

	return final
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	inputFile := flag.String("file", "", "Path to the input PDF file")
	entity := flag.String("entity", "", "Entity text to find in the document")
	strategyName := flag.String("strategy", "", "Matching strategy: exact, fuzzy, contextual (default: exact)")
	threshold := flag.Float64("threshold", 0, "Minimum confidence threshold 0-100 (default: per strategy)")
	contextWindow := flag.Int("context-window", 0, "Words of surrounding context for contextual matches (default: 3)")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	fullText := flag.Bool("full-text", false, "Print the document's extracted text and exit")
	verbose := flag.Bool("verbose", false, "Display detailed information for each match")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	listStrategies := flag.Bool("list-strategies", false, "List available matching strategies")
	webMode := flag.Bool("web", false, "Start web server mode instead of CLI matching")
	webPort := flag.String("port", "", "Port for web server (default: 8080)")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")

	flag.Parse()

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := loadConfiguration(*configFile)
	flags := &configFlags{
		inputFile:     *inputFile,
		entity:        *entity,
		strategy:      *strategyName,
		threshold:     *threshold,
		contextWindow: *contextWindow,
		format:        *outputFormat,
		outputFile:    *outputFile,
		fullText:      *fullText,
		verbose:       *verbose,
		noColor:       *noColor,
	}
	finalConfig := resolveConfiguration(cfg, flags, setFlags)

	helpSystem := help.NewSystem(finalConfig.noColor)
	if strategies, err := matcher.All(matcher.Params{}); err == nil {
		for _, strategy := range strategies {
			if provider, ok := strategy.(help.Provider); ok {
				helpSystem.RegisterProvider(provider)
			}
		}
	}

	if *showHelp {
		args := flag.Args()
		if len(args) == 0 {
			helpSystem.ShowGeneralHelp()
			return
		}
		if args[0] == "strategies" {
			helpSystem.ShowStrategiesHelp()
			return
		}
		if helpSystem.ShowStrategyHelp(args[0]) {
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown help topic: %s\n", args[0])
		os.Exit(1)
	}

	if *listStrategies {
		helpSystem.ShowStrategiesHelp()
		return
	}

	if *webMode {
		port := cfg.Server.Port
		if setFlags["port"] {
			port = *webPort
		}
		server := web.NewWebServer(port, cfg)
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "Run with --help for usage information")
		os.Exit(1)
	}

	ext := extractor.New(*inputFile)
	if err := ext.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *fullText {
		text, err := ext.ExtractFullText()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := writeOutput(text, *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *entity == "" {
		fmt.Fprintln(os.Stderr, "Error: --entity is required (or use --full-text)")
		os.Exit(1)
	}

	strategy, err := matcher.Create(finalConfig.strategy, matcher.Params{
		Threshold:     finalConfig.threshold,
		ContextWindow: finalConfig.contextWindow,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bounds, err := ext.ExtractBounds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := formatters.Report{
		File:     *inputFile,
		Entity:   *entity,
		Strategy: strategy.Name(),
		Matches:  strategy.Match(*entity, bounds),
	}

	output, err := formatters.Export(finalConfig.format, report, formatters.FormatterOptions{
		Verbose: finalConfig.verbose,
		NoColor: finalConfig.noColor || *outputFile != "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutput(output, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeOutput sends content to the output file or stdout
func writeOutput(content, outputFile string) error {
	if outputFile == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	fmt.Printf("Results written to %s\n", outputFile)
	return nil
}
