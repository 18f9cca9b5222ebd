// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package llm extracts entity mentions from document text through an
// OpenAI-compatible chat completions endpoint. The model is asked to
// answer with bare JSON; malformed answers degrade to empty results
// rather than failing the request.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrNoAPIKey is returned when no API key is configured
var ErrNoAPIKey = errors.New("no API key configured (set OPENAI_API_KEY)")

// maxTextChars caps how much document text is sent per request
const maxTextChars = 4000

// Config for the extraction client
type Config struct {
	APIKey  string // falls back to env OPENAI_API_KEY when empty
	BaseURL string // default https://api.openai.com/v1
	Model   string
	Timeout time.Duration
}

// Extractor calls an OpenAI-compatible chat completions API
type Extractor struct {
	cfg        Config
	httpClient *http.Client
}

// New creates an extraction client with defaults applied
func New(cfg Config) *Extractor {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Extractor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ExtractEntities asks the model for entity mentions found in text.
// When entityTypes is non-empty, only entities of those types are
// requested. The result is a flat list of entity strings.
func (e *Extractor) ExtractEntities(ctx context.Context, text string, entityTypes []string) ([]string, error) {
	if e.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	prompt := "Extract all named entities from the following text."
	if len(entityTypes) > 0 {
		prompt = fmt.Sprintf("Extract entities of the following types from the text: %s.",
			strings.Join(entityTypes, ", "))
	}
	prompt += " Return ONLY a JSON array of strings, with no explanation.\n\nText:\n" + truncate(text)

	content, err := e.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseEntityList(content), nil
}

// ExtractNamedEntities asks the model for entities grouped by type.
// The result maps entity type to the mentions of that type.
func (e *Extractor) ExtractNamedEntities(ctx context.Context, text string) (map[string][]string, error) {
	if e.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	prompt := "Extract all named entities from the following text and group them by type " +
		"(for example PERSON, ORGANIZATION, LOCATION, DATE). " +
		"Return ONLY a JSON object mapping each type to an array of strings, with no explanation.\n\nText:\n" +
		truncate(text)

	content, err := e.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseNamedEntities(content), nil
}

// complete sends one chat completion request and returns the first
// choice's message content.
func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":       e.cfg.Model,
		"temperature": 0,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	endpoint := strings.TrimRight(e.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling completion API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion API status %d: %s", resp.StatusCode, string(raw))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

// truncate limits text to maxTextChars runes
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTextChars {
		return text
	}
	return string(runes[:maxTextChars])
}

// parseEntityList leniently parses the model answer as a JSON array of
// strings. Code fences are stripped, blank entries dropped, and any
// parse failure yields an empty list.
func parseEntityList(content string) []string {
	var items []string
	if err := json.Unmarshal([]byte(stripFences(content)), &items); err != nil {
		return []string{}
	}

	entities := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			entities = append(entities, s)
		}
	}
	return entities
}

// parseNamedEntities leniently parses the model answer as a JSON object
// mapping type names to string arrays. Parse failures yield an empty map.
func parseNamedEntities(content string) map[string][]string {
	var grouped map[string][]string
	if err := json.Unmarshal([]byte(stripFences(content)), &grouped); err != nil {
		return map[string][]string{}
	}

	result := make(map[string][]string, len(grouped))
	for entityType, items := range grouped {
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(item); s != "" {
				cleaned = append(cleaned, s)
			}
		}
		if len(cleaned) > 0 {
			result[entityType] = cleaned
		}
	}
	return result
}

// stripFences removes a surrounding markdown code fence if present
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
